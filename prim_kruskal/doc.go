// Package prim_kruskal computes spanning trees of weighted undirected
// graphs given as index edge lists, with Kruskal's union-find algorithm or
// Prim's heap-based growth.
//
// Both minimum and maximum spanning trees are supported (WithMaximum). The
// junction-tree construction uses the maximum variant: cliques are nodes,
// separator sizes are weights, and any maximum-weight spanning tree of the
// clique graph of a chordal graph satisfies the running-intersection
// property.
//
// Ties are broken by the input edge order, so results are deterministic.
//
// Complexity: Kruskal O(E log E + α(V)·E); Prim O(E log V). Memory O(V+E).
package prim_kruskal

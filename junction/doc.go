// Package junction provides JunctionTree, an immutable tree of cliques over
// the variables 0..n-1 of a network, with separators on its edges.
//
// A JunctionTree is either wrapped from a clique snapshot (New), as produced
// by a discrete graphical-model engine, or derived from a DAG (FromDAG):
//
//  1. Moralize: link every node to its parents and marry co-parents.
//  2. Triangulate by min-fill elimination; each elimination step yields
//     a candidate clique (the node and its remaining neighbors).
//  3. Keep the maximal candidates.
//  4. Connect cliques by a maximum spanning tree on separator size
//     (prim_kruskal), dropping empty separators so that independent
//     components become separate trees of a forest.
//
// Invariants checked at construction:
//
//   - the cliques cover exactly the variables 0..n-1;
//   - the edges form a forest over the cliques;
//   - running intersection: the cliques containing any variable induce a
//     connected subtree (checked with bfs restricted to those cliques).
//
// Marginal restricts the tree to a subset of variables, removes subsumed
// cliques and reconnects the rest, favouring large separators and edges of
// the original tree.
package junction

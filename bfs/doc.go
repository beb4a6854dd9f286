// Package bfs provides breadth-first search over index-based undirected
// graphs, returning visit order, hop distances and parent links.
//
// BFS explores nodes in increasing distance from a start node, with an
// optional visit hook, depth limiting and neighbor filtering. Components
// partitions a graph into its connected components.
//
// The junction-tree code relies on both: a BFS from the root clique gives
// the order in which cliques are sampled (every clique after the root has
// its parent clique already sampled), and Components checks that the
// cliques holding a given variable form a connected subtree.
//
// Complexity: Time O(V+E), Memory O(V).
package bfs

// SPDX-License-Identifier: MIT

// Package core provides the graph structures shared by the structure
// learners and the generative models: the partially directed graph PDAG
// and the immutable NamedDAG.
//
// Representation:
//
//   - Nodes are the integers 0..n-1, each carrying a unique non-empty name.
//   - A PDAG stores one Mark per ordered node pair in an n×n arena:
//     marks[u][v] == Undirected for u–v, Out/In for u→v seen from u/v.
//     Adjacency, orientation and removal are O(1); neighbor lists are O(n).
//   - A NamedDAG stores sorted parent and child lists and a topological
//     order computed once at construction.
//
// Invariants:
//
//   - The directed part of a PDAG never contains a cycle: AddArc and
//     OrientEdge reject any arc u→v while v⇝u already exists, returning
//     ErrCycleDetected / ErrInvalidOrientation.
//   - A NamedDAG is acyclic and immutable; parents/children stay consistent.
//
// Both graphs satisfy dfs.Digraph (directed part) and bfs.Graph (all
// adjacencies), and export to a plain-text edge list (String) and to DOT.
//
// Errors:
//
//	ErrCycleDetected       - an arc would close a directed cycle.
//	ErrInvalidOrientation  - orientation contradicts the PDAG.
//	ErrNodeOutOfRange      - node index outside [0, n).
//	ErrSelfLoop            - u == v.
//	ErrEdgeExists          - u and v are already adjacent.
//	ErrEdgeNotFound        - u and v are not adjacent.
//	ErrEmptyName           - a node name is empty.
//	ErrDuplicateName       - two nodes share a name.
//	ErrUnknownName         - a name does not belong to the graph.
//	ErrMalformedPrototype  - ParseNamedDAG input is not "A->B;C".
package core

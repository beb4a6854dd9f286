// Package dfs implements depth-first search primitives on index-based
// directed graphs: topological sort, cycle detection and reachability.
//
// What:
//
//   - TopologicalSort: linear ordering of the nodes of a DAG such that every
//     arc u→v places u before v; returns ErrCycleDetected otherwise.
//   - FindCycle / HasCycle: three-colour marking (White, Gray, Black) with
//     back-edge detection, reporting one directed cycle.
//   - Reachable: iterative DFS answering "is there a directed path u⇝v",
//     the acyclicity check used before every arc insertion or orientation.
//
// The algorithms work on the minimal Digraph view (node count and successor
// lists), so the graph packages built on top (core, junction) can use them
// without an import cycle.
//
// Complexity:
//
//   - TopologicalSort: Time O(V+E), Memory O(V)
//   - FindCycle:       Time O(V+E), Memory O(V)
//   - Reachable:       Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil       graph is nil
//   - ErrCycleDetected  a directed cycle prevents a topological order
//   - ErrNodeOutOfRange a node index is outside [0, Order())
package dfs

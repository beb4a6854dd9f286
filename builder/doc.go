// Package builder produces deterministic fixtures for structure learning:
// DAGs over named nodes and samples drawn from them.
//
// The package offers the following key components:
//
//   - BuildDAG(n, opts, cons...): the single orchestrator. It names n nodes
//     with the configured IDFn, applies each Constructor in order to a
//     core.PDAG holding arcs only, and returns the resulting NamedDAG.
//   - Topology constructors:
//     – Chain:        0→1→…→n-1.
//     – Star:         center→every other node.
//     – Collider:     every other node→center.
//     – Complete:     i→j for all i<j.
//     – RandomSparse: each forward pair of a random node order with
//     probability p.
//     – RandomWalk:   a random sequence of legal add/delete/reverse moves
//     from the current DAG.
//   - LinearGaussianSample: draws a sample from a linear-Gaussian structural
//     model over a DAG, arc coefficients taken from the WeightFn.
//   - Vertex-ID schemes (IDFn): decimal, Excel columns ("A".."Z","AA",…),
//     prefixed numbers ("X0","X1",…).
//   - Coefficient distributions (WeightFn): constant, uniform, signed
//     uniform.
//
// Guarantees:
//
//   - Fast-fail on invalid option parameters via panics in option
//     constructors; constructors return sentinel errors and never panic.
//   - Same options, same seed and same constructor order give the same DAG
//     and the same sample.
//   - Every constructor honors WithMaxParents; structural constructors fail
//     with ErrConstructFailed when the bound makes them impossible.
package builder

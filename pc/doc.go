// Package pc learns the structure of a continuous Bayesian network with the
// PC algorithm driven by a conditional independence oracle.
//
// Stages, each computed once per Learner and cached:
//
//  1. LearnSkeleton: start from the complete undirected graph. For each
//     order ℓ = 0, 1, ..., MaxConditioningSetSize, test every remaining edge
//     X–Y whose endpoints still have at least ℓ other neighbors, against the
//     subsets Z of size ℓ of adj(X)\{Y}, then of adj(Y)\{X}, in
//     lexicographic order. An independent result removes the edge and
//     records Z as its separating set. Tests of one order run against a
//     frozen snapshot of the adjacencies (PC-stable), so they may run
//     concurrently (WithWorkers) and the result does not depend on the
//     order of the edges. The search stops when no edge can be tested at
//     the next order.
//  2. LearnPDAG: orient X→Z←Y for every unshielded triple whose middle
//     node is not in the separating set of X and Y, strongest separations
//     first, skipping conflicting colliders; then apply Meek's rules.
//  3. LearnDAG: orient the remaining undirected edges without creating
//     cycles (core.PDAG.Extension).
//
// By default the first independent subset wins. WithOptimalPolicy scans
// all subsets of the order and keeps the one with the largest p-value.
//
// The p-value and statistic of every tested edge are kept (the largest
// p-value seen across orders) and label the DOT exports.
package pc

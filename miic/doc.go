// Package miic learns the structure of a continuous Bayesian network by
// ranking information scores instead of thresholding independence tests.
//
// The skeleton starts complete. Every pair whose corrected mutual
// information I'(X;Y) is not positive loses its edge at once. Each
// remaining edge X–Y then keeps a conditioning set U (initially empty) and
// its best contributor: the neighbor Z of X or Y maximizing the corrected
// 3-point information I'(X;Y;Z|U), accepted only when that score is
// positive and conditioning on Z lowers I'(X;Y|U). At each step the edge
// with the strongest contributor absorbs it into U; the edge is removed,
// with U as separating set, once I'(X;Y|U) drops to zero or below. The
// loop ends when no edge has a contributor or U reaches
// MaxConditioningSetSize.
//
// Orientation scores every unshielded triple X–Z–Y by
// I'(X;Y;Z|sepset(X,Y)\{Z}). Negative scores are v-structures and are
// applied most negative first, skipping those that conflict with earlier
// ones; Meek's rules then propagate, and LearnDAG completes the remaining
// undirected edges without new colliders.
//
// Each stage is computed once per Learner and cached.
package miic

// Package oracle answers the two questions the structure learners ask of
// the data: "are X and Y independent given Z?" and "how much information
// do X and Y share given Z?".
//
// Both are computed in copula space. The sample is replaced by its
// pseudo-observations once, at construction, and every query restricts it
// to the relevant columns and fits a copula there:
//
//   - Gaussian mode fits a normal copula on normal scores and uses the
//     closed-form entropy ½·log det R.
//   - Bernstein mode fits an empirical Bernstein copula of order
//     K = 1 + ⌊N^(2/(4+d))⌋ and uses the plug-in entropy -mean log ĉ(u_i).
//
// Conditional information is assembled from copula entropies:
//
//	I(X;Y|U)   = H(XU) + H(YU) - H(XYU) - H(U)
//	I(X;Y;Z|U) = H(XU) + H(YU) + H(ZU) - H(XYU) - H(XZU) - H(YZU) + H(XYZU) - H(U)
//
// Naive correction subtracts α from the 2-point value and adds α to the
// 3-point value; NoCorr leaves both untouched. The mode pair is fixed at
// construction.
//
// Entropies are memoized in an LRU cache keyed by the sorted index set
// (and K in Bernstein mode), stratified by set size so a learner can drop a
// whole level once it moves past it (ClearCacheLevel).
//
// Tester implementations turn these quantities into decisions:
//
//   - CMITest: statistic 2N·I(X;Y|Z), χ²₁ p-value.
//   - HellingerTest: Hellinger distance between the Bernstein estimates of
//     f(X,Y,Z)·f(Z) and f(X,Z)·f(Y,Z), centered and scaled to N(0,1).
//
// When the conditioning set leaves fewer than one degree of freedom
// (N - |Z| - 3 < 1) a test declines to reject independence and flags the
// result as Insufficient instead of failing.
package oracle

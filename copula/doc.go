// Package copula provides the multivariate dependence models of the
// continuous Bayesian networks: the independence copula, the Gaussian
// copula, and the empirical Bernstein copula, together with their factories.
//
// Conventions:
//
//   - Points live in the open unit cube; densities vanish outside it.
//   - Conditional operations (ConditionalPDF, ConditionalCDF,
//     ConditionalQuantile) act on the LAST component given the preceding
//     ones. A network's local copula over (parents..., node) therefore
//     yields the node's conditional law directly.
//   - Factories rank their input, so raw data and pseudo-observations give
//     the same copula.
//
// The empirical Bernstein copula of order K over n pseudo-observations u_i
// has atoms r_ij = ⌈K·u_ij⌉ and density
//
//	c(u) = (1/n) Σ_i Π_j β(u_j; r_ij, K - r_ij + 1)
//
// where β(·; a, b) is the Beta density. Restricting to a subset of columns
// (Marginal) keeps the atoms, so clique and separator copulas built from one
// sample are consistent with each other.
package copula

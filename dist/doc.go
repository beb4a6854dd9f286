// Package dist provides the univariate marginal distributions of the
// continuous Bayesian networks and the factories that fit them.
//
// Distributions wrap gonum's distuv kernels (Normal, Uniform, and a
// Gaussian KernelSmoothing estimator built on UnitNormal) behind a small
// Distribution interface taking an explicit *rand.Rand for sampling, so
// draws are reproducible and goroutine-confined.
//
// Discretize converts a distribution into interval probabilities over a
// tick grid. It fails with ErrDegenerateSupport when the numerical support
// exceeds the grid or too much mass leaks outside it, rather than silently
// truncating.
package dist

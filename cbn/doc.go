// Package cbn implements continuous Bayesian networks over copulas.
//
// A Network attaches to every node v of a DAG a univariate marginal F_v and
// a local copula C_v over (parents of v..., v), the node being the last
// component. The joint density factorizes as
//
//	f(x) = Π_v f_v(x_v) · Π_v c_v(u_v | u_pa(v)),  u = F(x)
//
// where c_v(·|·) is the conditional density of the last component of C_v.
// Sampling visits nodes in topological order, draws u_v by the conditional
// quantile of C_v given the parents' draws and maps it through F_v⁻¹.
//
// A Factory fits a Network on a sample, given a DAG or learning one with
// package pc. For every node it fits the marginal and the local copula,
// choosing among several candidate families by validation log-likelihood on
// a learning/validation split. The local copula falls back to the
// independence copula when the node has more parents than MaxParents, when
// the dependence of the node on its parent set is not significant at level
// Alpha, or when no candidate family could be fitted. Each node's outcome
// is recorded in a NodeReport.
package cbn

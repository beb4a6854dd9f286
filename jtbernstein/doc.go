// Package jtbernstein implements the junction-tree Bernstein copula.
//
// Given a junction tree over the variables 0..d-1 and a sample, the copula
// ranks the sample once, assigns every row an atom in {1..K}^d and reads
// the empirical Bernstein copula of each clique and each separator off the
// coordinates of those shared atoms. The density is the junction-tree
// factorization
//
//	c(u) = Π_C c_C(u_C) / Π_S c_S(u_S)
//
// over cliques C and separators S. Rows beyond the largest multiple of K
// are dropped, so every one-dimensional margin is exactly uniform.
//
// Sampling walks the tree breadth first. The root clique of each component
// is drawn jointly; every other clique draws its new variables from its
// Bernstein copula conditioned on the separator values already drawn. A
// separator whose density vanishes at those values fails the draw with
// ErrDegenerateSeparator, or restarts it when WithRejection allows retries.
//
// A Factory learns the tree with package pc when none is supplied, which
// makes it usable as a local copula family of package cbn.
package jtbernstein

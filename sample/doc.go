// Package sample holds the data the learners and factories consume: a
// named, column-oriented numeric sample backed by a gonum dense matrix.
//
// A Sample is immutable once built; every accessor returns copies. Besides
// restriction to a subset of columns (Marginal) it provides the rank
// transform used throughout the copula code (PseudoObservations), a
// learning/validation split, per-column summaries, and CSV I/O.
//
// Pseudo-observations map the i-th smallest of N values to (i+1)/(N+1),
// so every coordinate lies strictly inside (0,1). Ties keep row order.
package sample

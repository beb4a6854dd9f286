// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w and the constructor name.
//   • Constructors never panic; validation panics are confined to option
//     constructors (WithX...).

package builder

import "errors"

// ErrTooFewVertices indicates a node count or size below the constructor's
// minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor without an RNG
// (set WithSeed or WithRand).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a topology that cannot be built under the
// configured bounds (e.g., a star whose center would exceed max parents).
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrBadSize indicates an invalid sample size.
var ErrBadSize = errors.New("builder: invalid size")

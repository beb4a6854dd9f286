// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// options.go: functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors validate and panic on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand/v2"
)

// BuilderOption customizes a builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the node naming function. Panics on nil.
func WithIDScheme(fn IDFn) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) {
		c.idFn = fn
	}
}

// WithNames names nodes from a fixed list; BuildDAG fails when n exceeds it.
func WithNames(names ...string) BuilderOption {
	list := append([]string(nil), names...)
	return WithIDScheme(func(i int) string {
		if i < len(list) {
			return list[i]
		}
		return ""
	})
}

// WithRand provides an explicit RNG. Panics on nil; prefer WithSeed.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a PCG-backed RNG from seed.
func WithSeed(seed uint64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithWeightFn sets the arc coefficient generator. Panics on nil.
func WithWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("builder: WithWeightFn(nil)")
	}
	return func(c *builderConfig) {
		c.weightFn = fn
	}
}

// WithMaxParents bounds every in-degree. Panics if k < 0.
func WithMaxParents(k int) BuilderOption {
	if k < 0 {
		panic("builder: WithMaxParents(k<0)")
	}
	return func(c *builderConfig) {
		c.maxParents = k
	}
}

// WithNoise sets the structural noise standard deviation. Panics if
// sigma <= 0.
func WithNoise(sigma float64) BuilderOption {
	if sigma <= 0 {
		panic("builder: WithNoise(sigma<=0)")
	}
	return func(c *builderConfig) {
		c.noiseSigma = sigma
	}
}

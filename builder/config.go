// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • idFn       = ExcelColumnIDFn    ("A","B",...,"Z","AA",...)
//   • rng        = nil                (pure unless seeded)
//   • weightFn   = ConstantWeightFn(DefaultCoefficient)
//   • maxParents = -1                 (unbounded)
//   • noiseSigma = 1.0

package builder

import (
	"math/rand/v2"
)

// builderConfig aggregates all knobs used by constructors. It is passed by
// value to constructors.
type builderConfig struct {
	// Node naming strategy: index -> name.
	idFn IDFn
	// RNG for stochastic choices; nil means "no randomness".
	rng *rand.Rand
	// Arc coefficient generator for LinearGaussianSample.
	weightFn WeightFn
	// In-degree bound; negative means unbounded.
	maxParents int
	// Standard deviation of the structural noise.
	noiseSigma float64
}

const (
	defaultMaxParents = -1
	defaultNoiseSigma = 1.0
)

// newBuilderConfig applies options in order (later overrides earlier).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:       ExcelColumnIDFn,
		weightFn:   ConstantWeightFn(DefaultCoefficient),
		maxParents: defaultMaxParents,
		noiseSigma: defaultNoiseSigma,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// fits reports whether v may take one more parent.
func (c builderConfig) fits(parents int) bool {
	return c.maxParents < 0 || parents < c.maxParents
}

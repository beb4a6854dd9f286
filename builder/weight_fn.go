// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// weight_fn.go: arc coefficient distributions for LinearGaussianSample.

package builder

import (
	"fmt"
	"math/rand/v2"
)

// DefaultCoefficient is the arc coefficient used when no WeightFn is set.
const DefaultCoefficient = 0.5

// WeightFn draws one arc coefficient. It must tolerate a nil RNG.
type WeightFn func(rng *rand.Rand) float64

// ConstantWeightFn always returns value.
func ConstantWeightFn(value float64) WeightFn {
	return func(_ *rand.Rand) float64 { return value }
}

// UniformWeightFn draws from [min,max); with a nil RNG it returns the
// midpoint. Panics if max < min.
func UniformWeightFn(min, max float64) WeightFn {
	if max < min {
		panic(fmt.Sprintf("UniformWeightFn: require min ≤ max, got min=%g, max=%g", min, max))
	}
	return func(rng *rand.Rand) float64 {
		if rng == nil || max == min {
			return (min + max) / 2
		}
		return min + rng.Float64()*(max-min)
	}
}

// SignedUniformWeightFn draws a magnitude from [min,max) and a random sign.
// Panics unless 0 ≤ min ≤ max.
func SignedUniformWeightFn(min, max float64) WeightFn {
	if min < 0 || max < min {
		panic(fmt.Sprintf("SignedUniformWeightFn: require 0 ≤ min ≤ max, got min=%g, max=%g", min, max))
	}
	magnitude := UniformWeightFn(min, max)
	return func(rng *rand.Rand) float64 {
		w := magnitude(rng)
		if rng != nil && rng.IntN(2) == 0 {
			return -w
		}
		return w
	}
}

// WithConstantWeight sets every arc coefficient to w.
func WithConstantWeight(w float64) BuilderOption { return WithWeightFn(ConstantWeightFn(w)) }

// WithUniformWeight draws coefficients from [min,max).
func WithUniformWeight(min, max float64) BuilderOption {
	return WithWeightFn(UniformWeightFn(min, max))
}

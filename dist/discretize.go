package dist

import (
	"fmt"
	"math"
)

// leakageTolerance is the largest probability mass allowed outside the grid.
var leakageTolerance = math.Sqrt(math.Sqrt(1e-14))

// DiscretizeOption configures Discretize.
type DiscretizeOption func(*discretizeConfig)

type discretizeConfig struct {
	truncated bool
}

// WithTruncation accepts distributions wider than the grid: the interval
// probabilities are renormalized instead of failing.
func WithTruncation() DiscretizeOption {
	return func(c *discretizeConfig) { c.truncated = true }
}

// Discretize returns P(t_k < X ≤ t_{k+1}) for consecutive ticks,
// normalized to sum to one.
//
// Unless truncation is requested it fails with ErrDegenerateSupport when the
// numerical support of d exceeds [t_0, t_last] or when more than ~3e-4 of
// the mass falls outside the grid.
func Discretize(d Distribution, ticks []float64, opts ...DiscretizeOption) ([]float64, error) {
	var cfg discretizeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	// 1. Validate grid
	if len(ticks) < 2 {
		return nil, fmt.Errorf("dist: %d ticks: %w", len(ticks), ErrInvalidTicks)
	}
	for i := 1; i < len(ticks); i++ {
		if !(ticks[i] > ticks[i-1]) {
			return nil, fmt.Errorf("dist: tick %d: %w", i, ErrInvalidTicks)
		}
	}
	last := ticks[len(ticks)-1]

	// 2. Support must fit in the grid
	if !cfg.truncated {
		lo, hi := d.Support()
		if lo < ticks[0] || hi > last {
			return nil, fmt.Errorf("dist: %s support [%g, %g] outside [%g, %g]: %w",
				d, lo, hi, ticks[0], last, ErrDegenerateSupport)
		}
	}

	// 3. Interval probabilities
	probs := make([]float64, len(ticks)-1)
	sum := 0.0
	prev := d.CDF(ticks[0])
	for i := range probs {
		next := d.CDF(ticks[i+1])
		probs[i] = next - prev
		sum += probs[i]
		prev = next
	}

	// 4. Mass leakage
	if !cfg.truncated && sum < 1-leakageTolerance {
		return nil, fmt.Errorf("dist: %s leaks %g outside the grid: %w", d, 1-sum, ErrDegenerateSupport)
	}
	if !(sum > 0) {
		return nil, fmt.Errorf("dist: %s has no mass on the grid: %w", d, ErrDegenerateSupport)
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs, nil
}

package dist

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Factory fits a Distribution on a column of observations.
type Factory interface {
	Build(x []float64) (Distribution, error)
	Name() string
}

// NormalFactory fits a Gaussian by sample mean and standard deviation.
type NormalFactory struct{}

// Name returns "Normal".
func (NormalFactory) Name() string { return "Normal" }

// Build fits N(mean, sd²).
func (NormalFactory) Build(x []float64) (Distribution, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("dist: Normal needs 2 points, got %d: %w", len(x), ErrInsufficientData)
	}
	mu, sd := stat.MeanStdDev(x, nil)
	if !(sd > 0) {
		return nil, fmt.Errorf("dist: Normal on constant data: %w", ErrDegenerateSupport)
	}

	return Normal{Mu: mu, Sigma: sd}, nil
}

// UniformFactory fits a uniform law widening the observed range by one
// average spacing on each side, the unbiased estimator of the bounds.
type UniformFactory struct{}

// Name returns "Uniform".
func (UniformFactory) Name() string { return "Uniform" }

// Build fits Uniform(min - δ, max + δ) with δ = (max-min)/(n-1).
func (UniformFactory) Build(x []float64) (Distribution, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("dist: Uniform needs 2 points, got %d: %w", len(x), ErrInsufficientData)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("dist: Uniform on constant data: %w", ErrDegenerateSupport)
	}
	delta := (hi - lo) / float64(len(x)-1)

	return Uniform{Min: lo - delta, Max: hi + delta}, nil
}

// KernelSmoothingFactory fits a Gaussian kernel estimate. A zero Bandwidth
// selects Silverman's rule 0.9·min(sd, IQR/1.34)·n^(-1/5).
type KernelSmoothingFactory struct {
	Bandwidth float64
}

// Name returns "KernelSmoothing".
func (KernelSmoothingFactory) Name() string { return "KernelSmoothing" }

// Build fits the kernel estimate.
func (f KernelSmoothingFactory) Build(x []float64) (Distribution, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("dist: KernelSmoothing needs 2 points, got %d: %w", len(x), ErrInsufficientData)
	}
	h := f.Bandwidth
	if h <= 0 {
		var err error
		if h, err = SilvermanBandwidth(x); err != nil {
			return nil, err
		}
	}

	return NewKernelSmoothing(x, h)
}

// SilvermanBandwidth returns 0.9·min(sd, IQR/1.34)·n^(-1/5), falling back to
// sd when the interquartile range vanishes.
func SilvermanBandwidth(x []float64) (float64, error) {
	sd, err := stats.StandardDeviationSample(x)
	if err != nil {
		return 0, fmt.Errorf("dist: bandwidth: %w", err)
	}
	q25, err := stats.Percentile(x, 25)
	if err != nil {
		return 0, fmt.Errorf("dist: bandwidth: %w", err)
	}
	q75, err := stats.Percentile(x, 75)
	if err != nil {
		return 0, fmt.Errorf("dist: bandwidth: %w", err)
	}
	spread := sd
	if iqr := (q75 - q25) / 1.34; iqr > 0 && iqr < spread {
		spread = iqr
	}
	if !(spread > 0) {
		return 0, fmt.Errorf("dist: bandwidth on constant data: %w", ErrDegenerateSupport)
	}

	return 0.9 * spread * math.Pow(float64(len(x)), -0.2), nil
}

package dist

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrDegenerateSupport indicates a distribution whose support does not fit
	// a discretization grid, or data without spread.
	ErrDegenerateSupport = errors.New("dist: degenerate support")

	// ErrInsufficientData indicates too few observations to fit a distribution.
	ErrInsufficientData = errors.New("dist: insufficient data")

	// ErrInvalidTicks indicates a discretization grid that is not strictly increasing.
	ErrInvalidTicks = errors.New("dist: ticks must be strictly increasing")
)

// supportSigmas bounds the numerical support of Gaussian tails: beyond
// ±8.125σ the tail mass is below 1e-15.
const supportSigmas = 8.125

// Distribution is a univariate continuous distribution.
type Distribution interface {
	PDF(x float64) float64
	LogPDF(x float64) float64
	CDF(x float64) float64
	Quantile(p float64) float64
	Rand(rng *rand.Rand) float64
	Mean() float64
	// Support returns a numerical range holding all but a negligible mass.
	Support() (lo, hi float64)
	String() string
}

// Normal is the Gaussian N(Mu, Sigma²).
type Normal struct {
	Mu, Sigma float64
}

func (n Normal) kernel() distuv.Normal { return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma} }

// PDF returns the density at x.
func (n Normal) PDF(x float64) float64 { return n.kernel().Prob(x) }

// LogPDF returns the log-density at x.
func (n Normal) LogPDF(x float64) float64 { return n.kernel().LogProb(x) }

// CDF returns P(X ≤ x).
func (n Normal) CDF(x float64) float64 { return n.kernel().CDF(x) }

// Quantile returns the p-quantile.
func (n Normal) Quantile(p float64) float64 { return n.kernel().Quantile(p) }

// Rand draws one value.
func (n Normal) Rand(rng *rand.Rand) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: rng}.Rand()
}

// Mean returns Mu.
func (n Normal) Mean() float64 { return n.Mu }

// Support returns Mu ± 8.125 Sigma.
func (n Normal) Support() (float64, float64) {
	return n.Mu - supportSigmas*n.Sigma, n.Mu + supportSigmas*n.Sigma
}

func (n Normal) String() string { return fmt.Sprintf("Normal(mu=%g, sigma=%g)", n.Mu, n.Sigma) }

// Uniform is the uniform distribution on [Min, Max].
type Uniform struct {
	Min, Max float64
}

func (u Uniform) kernel() distuv.Uniform { return distuv.Uniform{Min: u.Min, Max: u.Max} }

// PDF returns the density at x.
func (u Uniform) PDF(x float64) float64 { return u.kernel().Prob(x) }

// LogPDF returns the log-density at x.
func (u Uniform) LogPDF(x float64) float64 { return u.kernel().LogProb(x) }

// CDF returns P(X ≤ x).
func (u Uniform) CDF(x float64) float64 { return u.kernel().CDF(x) }

// Quantile returns the p-quantile.
func (u Uniform) Quantile(p float64) float64 { return u.kernel().Quantile(p) }

// Rand draws one value.
func (u Uniform) Rand(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: u.Min, Max: u.Max, Src: rng}.Rand()
}

// Mean returns the midpoint.
func (u Uniform) Mean() float64 { return (u.Min + u.Max) / 2 }

// Support returns [Min, Max].
func (u Uniform) Support() (float64, float64) { return u.Min, u.Max }

func (u Uniform) String() string { return fmt.Sprintf("Uniform(a=%g, b=%g)", u.Min, u.Max) }

// KernelSmoothing is a Gaussian kernel density estimate with bandwidth H.
type KernelSmoothing struct {
	points []float64
	h      float64
	lo, hi float64
	mean   float64

	once  sync.Once
	table *cdfTable // built on the first Quantile
}

// NewKernelSmoothing builds the estimator over points with bandwidth h > 0.
func NewKernelSmoothing(points []float64, h float64) (*KernelSmoothing, error) {
	if len(points) == 0 {
		return nil, ErrInsufficientData
	}
	if !(h > 0) {
		return nil, fmt.Errorf("dist: bandwidth %g: %w", h, ErrDegenerateSupport)
	}
	k := &KernelSmoothing{points: append([]float64(nil), points...), h: h}
	k.lo, k.hi = math.Inf(1), math.Inf(-1)
	for _, x := range points {
		k.lo = math.Min(k.lo, x)
		k.hi = math.Max(k.hi, x)
		k.mean += x
	}
	k.mean /= float64(len(points))

	return k, nil
}

// Bandwidth returns h.
func (k *KernelSmoothing) Bandwidth() float64 { return k.h }

// PDF returns the density at x.
func (k *KernelSmoothing) PDF(x float64) float64 {
	s := 0.0
	for _, p := range k.points {
		s += distuv.UnitNormal.Prob((x - p) / k.h)
	}

	return s / (float64(len(k.points)) * k.h)
}

// LogPDF returns the log-density at x.
func (k *KernelSmoothing) LogPDF(x float64) float64 { return math.Log(k.PDF(x)) }

// CDF returns P(X ≤ x).
func (k *KernelSmoothing) CDF(x float64) float64 {
	s := 0.0
	for _, p := range k.points {
		s += distuv.UnitNormal.CDF((x - p) / k.h)
	}

	return s / float64(len(k.points))
}

// Quantile inverts the tabulated CDF. The table is built once, so each
// call costs O(log m) instead of O(n) per CDF evaluation.
func (k *KernelSmoothing) Quantile(p float64) float64 {
	lo, hi := k.Support()
	switch {
	case p <= 0:
		return lo
	case p >= 1:
		return hi
	}
	t := k.quantileTable()
	i := sort.SearchFloat64s(t.cdf, p)
	switch {
	case i == 0:
		return t.x[0]
	case i == len(t.x):
		return t.x[len(t.x)-1]
	}

	return t.invert(i-1, p)
}

// Rand draws one value: a uniformly chosen point plus kernel noise.
func (k *KernelSmoothing) Rand(rng *rand.Rand) float64 {
	return k.points[rng.IntN(len(k.points))] + k.h*rng.NormFloat64()
}

// Mean returns the mean of the points.
func (k *KernelSmoothing) Mean() float64 { return k.mean }

// Support returns [min - 8.125h, max + 8.125h].
func (k *KernelSmoothing) Support() (float64, float64) {
	return k.lo - supportSigmas*k.h, k.hi + supportSigmas*k.h
}

func (k *KernelSmoothing) String() string {
	return fmt.Sprintf("KernelSmoothing(n=%d, h=%g)", len(k.points), k.h)
}

package copula

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/copulanet/sample"
)

var (
	// ErrDimensionMismatch indicates a point or conditioning vector of the wrong length.
	ErrDimensionMismatch = errors.New("copula: dimension mismatch")

	// ErrInvalidIndices indicates marginal indices outside [0, Dim()) or repeated.
	ErrInvalidIndices = errors.New("copula: invalid marginal indices")

	// ErrNotPositiveDefinite indicates a correlation matrix that cannot be factorized.
	ErrNotPositiveDefinite = errors.New("copula: correlation matrix is not positive definite")

	// ErrInsufficientData indicates too few observations to fit a copula.
	ErrInsufficientData = errors.New("copula: insufficient data")

	// ErrZeroWeight indicates that no atom supports the conditioning values.
	ErrZeroWeight = errors.New("copula: conditioning values have zero density")
)

// Copula is a multivariate distribution on the unit cube with uniform marginals.
type Copula interface {
	Dim() int
	PDF(u []float64) float64
	LogPDF(u []float64) float64
	// ConditionalPDF is the density of the last component at x given the
	// first Dim()-1 components y.
	ConditionalPDF(x float64, y []float64) float64
	// ConditionalCDF is P(U_last ≤ x | U_first = y).
	ConditionalCDF(x float64, y []float64) float64
	// ConditionalQuantile inverts ConditionalCDF in x.
	ConditionalQuantile(q float64, y []float64) float64
	Rand(rng *rand.Rand) []float64
	Marginal(indices []int) (Copula, error)
	String() string
}

// Factory fits a Copula on a sample.
type Factory interface {
	Build(s *sample.Sample) (Copula, error)
	Name() string
}

// ConditionalSampler draws the unknown components of a point directly
// from the conditional law given the known ones.
type ConditionalSampler interface {
	ConditionalRand(rng *rand.Rand, u []float64, known []bool) ([]float64, error)
}

// inUnitCube reports whether every coordinate lies in (0,1).
func inUnitCube(u []float64) bool {
	for _, v := range u {
		if !(v > 0 && v < 1) {
			return false
		}
	}

	return true
}

// checkIndices validates a marginal index set against dimension d.
func checkIndices(indices []int, d int) error {
	if len(indices) == 0 {
		return fmt.Errorf("copula: empty index set: %w", ErrInvalidIndices)
	}
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= d {
			return fmt.Errorf("copula: index %d with d=%d: %w", i, d, ErrInvalidIndices)
		}
		if _, dup := seen[i]; dup {
			return fmt.Errorf("copula: index %d repeated: %w", i, ErrInvalidIndices)
		}
		seen[i] = struct{}{}
	}

	return nil
}

// bisect inverts a nondecreasing cdf on (0,1).
func bisect(cdf func(float64) float64, q float64) float64 {
	if q <= 0 {
		return 0
	}
	if q >= 1 {
		return 1
	}
	lo, hi := 0.0, 1.0
	for iter := 0; iter < 100 && hi-lo > 1e-13; iter++ {
		mid := 0.5 * (lo + hi)
		if cdf(mid) < q {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0.5 * (lo + hi)
}

// LogLikelihood returns the mean log-density of c over the rows of u,
// which must already be in copula space. Rows with zero density count
// as -Inf.
func LogLikelihood(c Copula, u *sample.Sample) (float64, error) {
	if u.Dim() != c.Dim() {
		return 0, fmt.Errorf("copula: sample dim %d for copula dim %d: %w", u.Dim(), c.Dim(), ErrDimensionMismatch)
	}
	total := 0.0
	for i := 0; i < u.Size(); i++ {
		total += c.LogPDF(u.Row(i))
	}
	if math.IsNaN(total) {
		return math.Inf(-1), nil
	}

	return total / float64(u.Size()), nil
}

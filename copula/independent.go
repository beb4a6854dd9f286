package copula

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/copulanet/sample"
)

// Independent is the independence (product) copula of dimension D.
type Independent struct {
	D int
}

// NewIndependent returns the d-dimensional independence copula.
func NewIndependent(d int) Independent { return Independent{D: d} }

// Dim returns D.
func (c Independent) Dim() int { return c.D }

// PDF is 1 inside the unit cube and 0 outside.
func (c Independent) PDF(u []float64) float64 {
	if len(u) != c.D || !inUnitCube(u) {
		return 0
	}

	return 1
}

// LogPDF is 0 inside the unit cube.
func (c Independent) LogPDF(u []float64) float64 { return math.Log(c.PDF(u)) }

// ConditionalPDF is uniform.
func (c Independent) ConditionalPDF(x float64, _ []float64) float64 {
	if x > 0 && x < 1 {
		return 1
	}

	return 0
}

// ConditionalCDF is the identity on [0,1].
func (c Independent) ConditionalCDF(x float64, _ []float64) float64 {
	return math.Min(1, math.Max(0, x))
}

// ConditionalQuantile is the identity on [0,1].
func (c Independent) ConditionalQuantile(q float64, _ []float64) float64 {
	return math.Min(1, math.Max(0, q))
}

// Rand draws D independent uniforms.
func (c Independent) Rand(rng *rand.Rand) []float64 {
	u := make([]float64, c.D)
	for i := range u {
		u[i] = rng.Float64()
	}

	return u
}

// Marginal returns the independence copula of the subset.
func (c Independent) Marginal(indices []int) (Copula, error) {
	if err := checkIndices(indices, c.D); err != nil {
		return nil, err
	}

	return Independent{D: len(indices)}, nil
}

func (c Independent) String() string { return fmt.Sprintf("IndependentCopula(dim=%d)", c.D) }

// IndependentFactory always returns the independence copula.
type IndependentFactory struct{}

// Name returns "Independent".
func (IndependentFactory) Name() string { return "Independent" }

// Build ignores the data values.
func (IndependentFactory) Build(s *sample.Sample) (Copula, error) {
	return Independent{D: s.Dim()}, nil
}

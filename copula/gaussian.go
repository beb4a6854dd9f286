package copula

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/copulanet/sample"
)

// minConditionalVariance bounds the residual variance of the last
// component away from zero for nearly deterministic dependence.
const minConditionalVariance = 1e-12

// Gaussian is the normal copula with correlation matrix R.
type Gaussian struct {
	d      int
	corr   *mat.SymDense
	chol   mat.Cholesky
	lower  mat.TriDense
	inv    *mat.SymDense
	logDet float64

	// Regression of the last normal score on the preceding ones.
	beta      []float64
	condSigma float64
}

// NewGaussian validates and factorizes a correlation matrix.
func NewGaussian(corr mat.Symmetric) (*Gaussian, error) {
	d := corr.SymmetricDim()
	if d == 0 {
		return nil, fmt.Errorf("copula: empty correlation matrix: %w", ErrDimensionMismatch)
	}
	g := &Gaussian{d: d, corr: mat.NewSymDense(d, nil)}
	g.corr.CopySym(corr)
	for i := 0; i < d; i++ {
		if math.Abs(g.corr.At(i, i)-1) > 1e-9 {
			return nil, fmt.Errorf("copula: diagonal entry %d is %g: %w", i, g.corr.At(i, i), ErrNotPositiveDefinite)
		}
	}
	if ok := g.chol.Factorize(g.corr); !ok {
		return nil, ErrNotPositiveDefinite
	}
	g.logDet = g.chol.LogDet()
	g.chol.LTo(&g.lower)
	g.inv = mat.NewSymDense(d, nil)
	if err := g.chol.InverseTo(g.inv); err != nil {
		return nil, fmt.Errorf("copula: invert correlation: %w", err)
	}

	// Conditional law of the last score: N(beta·z_first, condSigma²).
	g.condSigma = 1
	if d > 1 {
		first := make([]int, d-1)
		for i := range first {
			first[i] = i
		}
		var r11 mat.SymDense
		r11.SubsetSym(g.corr, first)
		r := mat.NewVecDense(d-1, nil)
		for i := 0; i < d-1; i++ {
			r.SetVec(i, g.corr.At(i, d-1))
		}
		var c11 mat.Cholesky
		if ok := c11.Factorize(&r11); !ok {
			return nil, ErrNotPositiveDefinite
		}
		var b mat.VecDense
		if err := c11.SolveVecTo(&b, r); err != nil {
			return nil, fmt.Errorf("copula: conditional regression: %w", err)
		}
		g.beta = make([]float64, d-1)
		for i := range g.beta {
			g.beta[i] = b.AtVec(i)
		}
		v := 1 - mat.Dot(r, &b)
		g.condSigma = math.Sqrt(math.Max(v, minConditionalVariance))
	}

	return g, nil
}

// NewBivariateGaussian returns the 2-dimensional normal copula with correlation rho.
func NewBivariateGaussian(rho float64) (*Gaussian, error) {
	return NewGaussian(mat.NewSymDense(2, []float64{1, rho, rho, 1}))
}

// Dim returns the dimension.
func (g *Gaussian) Dim() int { return g.d }

// Correlation returns a copy of R.
func (g *Gaussian) Correlation() *mat.SymDense {
	c := mat.NewSymDense(g.d, nil)
	c.CopySym(g.corr)

	return c
}

// LogDet returns log det R.
func (g *Gaussian) LogDet() float64 { return g.logDet }

// Entropy returns the copula entropy -E[log c(U)] = ½·log det R.
func (g *Gaussian) Entropy() float64 { return 0.5 * g.logDet }

// LogPDF returns -½ log det R - ½ zᵀ(R⁻¹ - I)z with z the normal scores of u.
func (g *Gaussian) LogPDF(u []float64) float64 {
	if len(u) != g.d || !inUnitCube(u) {
		return math.Inf(-1)
	}
	z := make([]float64, g.d)
	for i, v := range u {
		z[i] = distuv.UnitNormal.Quantile(v)
	}
	q := 0.0
	for i := 0; i < g.d; i++ {
		for j := 0; j < g.d; j++ {
			a := g.inv.At(i, j)
			if i == j {
				a--
			}
			q += z[i] * a * z[j]
		}
	}

	return -0.5*g.logDet - 0.5*q
}

// PDF returns the density at u.
func (g *Gaussian) PDF(u []float64) float64 { return math.Exp(g.LogPDF(u)) }

// conditionalMean returns beta·Φ⁻¹(y).
func (g *Gaussian) conditionalMean(y []float64) float64 {
	mu := 0.0
	for i, b := range g.beta {
		mu += b * distuv.UnitNormal.Quantile(y[i])
	}

	return mu
}

// ConditionalPDF returns φ((z-μ)/σ) / (σ φ(z)) with z = Φ⁻¹(x).
func (g *Gaussian) ConditionalPDF(x float64, y []float64) float64 {
	if len(y) != g.d-1 || !(x > 0 && x < 1) || !inUnitCube(y) {
		return 0
	}
	z := distuv.UnitNormal.Quantile(x)
	t := (z - g.conditionalMean(y)) / g.condSigma

	return math.Exp(distuv.UnitNormal.LogProb(t) - distuv.UnitNormal.LogProb(z) - math.Log(g.condSigma))
}

// ConditionalCDF returns Φ((Φ⁻¹(x) - μ)/σ).
func (g *Gaussian) ConditionalCDF(x float64, y []float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	if len(y) != g.d-1 || !inUnitCube(y) {
		return math.NaN()
	}
	z := distuv.UnitNormal.Quantile(x)

	return distuv.UnitNormal.CDF((z - g.conditionalMean(y)) / g.condSigma)
}

// ConditionalQuantile returns Φ(μ + σΦ⁻¹(q)).
func (g *Gaussian) ConditionalQuantile(q float64, y []float64) float64 {
	if q <= 0 {
		return 0
	}
	if q >= 1 {
		return 1
	}
	if len(y) != g.d-1 || !inUnitCube(y) {
		return math.NaN()
	}

	return distuv.UnitNormal.CDF(g.conditionalMean(y) + g.condSigma*distuv.UnitNormal.Quantile(q))
}

// Rand draws Φ(Lε) with R = LLᵀ.
func (g *Gaussian) Rand(rng *rand.Rand) []float64 {
	eps := make([]float64, g.d)
	for i := range eps {
		eps[i] = rng.NormFloat64()
	}
	u := make([]float64, g.d)
	for i := 0; i < g.d; i++ {
		z := 0.0
		for j := 0; j <= i; j++ {
			z += g.lower.At(i, j) * eps[j]
		}
		u[i] = distuv.UnitNormal.CDF(z)
	}

	return u
}

// Marginal returns the normal copula of the sub-correlation.
func (g *Gaussian) Marginal(indices []int) (Copula, error) {
	if err := checkIndices(indices, g.d); err != nil {
		return nil, err
	}
	var sub mat.SymDense
	sub.SubsetSym(g.corr, indices)

	return NewGaussian(&sub)
}

func (g *Gaussian) String() string {
	return fmt.Sprintf("NormalCopula(dim=%d, R=%v)", g.d, mat.Formatted(g.corr, mat.Squeeze()))
}

// GaussianFactory fits the normal copula on normal scores of the ranks.
type GaussianFactory struct{}

// Name returns "Gaussian".
func (GaussianFactory) Name() string { return "Gaussian" }

// Build estimates R as the correlation of Φ⁻¹(pseudo-observations),
// shrinking toward the identity when the estimate is singular.
func (GaussianFactory) Build(s *sample.Sample) (Copula, error) {
	return FitGaussian(s)
}

// FitGaussian is GaussianFactory.Build with the concrete return type.
func FitGaussian(s *sample.Sample) (*Gaussian, error) {
	if s.Size() < 2 {
		return nil, fmt.Errorf("copula: Gaussian needs 2 rows, got %d: %w", s.Size(), ErrInsufficientData)
	}

	return gaussianWithShrinkage(NormalScoreCorrelation(s))
}

// NormalScoreCorrelation returns the correlation of the normal scores of
// the sample's pseudo-observations.
func NormalScoreCorrelation(s *sample.Sample) *mat.SymDense {
	n, d := s.Size(), s.Dim()
	scores := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		u := sample.PseudoObservations(s.Column(j))
		for i, v := range u {
			u[i] = distuv.UnitNormal.Quantile(v)
		}
		scores.SetCol(j, u)
	}
	corr := mat.NewSymDense(d, nil)
	stat.CorrelationMatrix(corr, scores, nil)

	return corr
}

// gaussianWithShrinkage mixes corr with the identity until it factorizes.
func gaussianWithShrinkage(corr *mat.SymDense) (*Gaussian, error) {
	d := corr.SymmetricDim()
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			if math.IsNaN(corr.At(i, j)) {
				corr.SetSym(i, j, 0)
			}
		}
		corr.SetSym(i, i, 1)
	}
	if g, err := NewGaussian(corr); err == nil {
		return g, nil
	}
	for lambda := 1e-8; lambda < 1; lambda *= 10 {
		shrunk := mat.NewSymDense(d, nil)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				v := (1 - lambda) * corr.At(i, j)
				if i == j {
					v = 1
				}
				shrunk.SetSym(i, j, v)
			}
		}
		if g, err := NewGaussian(shrunk); err == nil {
			return g, nil
		}
	}

	return nil, ErrNotPositiveDefinite
}

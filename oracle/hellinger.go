package oracle

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/sample"
)

// minRatio skips observations where the joint estimate vanishes.
const minRatio = 1e-20

// HellingerTest measures the Hellinger distance between the Bernstein
// estimates of c(X,Y,Z)·c(Z) and c(X,Z)·c(Y,Z), removes its asymptotic bias
// and scales it to a standard normal statistic under independence.
type HellingerTest struct {
	u      *sample.Sample
	k      int
	alpha  float64
	cache  *stratifiedCache[[]float64]
	logger *slog.Logger
}

var _ Tester = (*HellingerTest)(nil)

// NewHellingerTest ranks s once. The Bernstein order is fixed for all
// queries by the bin rule on the full sample; only WithCacheSize and
// WithLogger are honoured among opts.
func NewHellingerTest(s *sample.Sample, alpha float64, opts ...Option) (*HellingerTest, error) {
	if s == nil {
		return nil, ErrNilSample
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("oracle: significance α=%g: %w", alpha, ErrInvalidAlpha)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &HellingerTest{
		u:      s.PseudoObservations(),
		k:      copula.BinNumber(s.Size(), s.Dim()),
		alpha:  alpha,
		cache:  newStratifiedCache[[]float64](o.CacheSize),
		logger: orDiscard(o.Logger),
	}, nil
}

// Order returns the Bernstein order K.
func (t *HellingerTest) Order() int { return t.k }

// Alpha returns the significance level.
func (t *HellingerTest) Alpha() float64 { return t.alpha }

// Dim returns the number of variables.
func (t *HellingerTest) Dim() int { return t.u.Dim() }

// Names returns the variable names.
func (t *HellingerTest) Names() []string { return t.u.Names() }

// ClearCache drops memoized densities.
func (t *HellingerTest) ClearCache() { t.cache.clear() }

// ClearCacheLevel drops memoized densities of sets of size level.
func (t *HellingerTest) ClearCacheLevel(level int) { t.cache.clearLevel(level) }

// CacheStats reports cache usage.
func (t *HellingerTest) CacheStats() CacheStats { return t.cache.stats() }

// densities returns ĉ_vars(u_i) for every observation; nil for an empty set.
func (t *HellingerTest) densities(vars []int) ([]float64, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	key := setKey(vars, t.k)
	if pdf, ok := t.cache.get(key); ok {
		return pdf, nil
	}
	m, err := t.u.Marginal(vars)
	if err != nil {
		return nil, err
	}
	b, err := copula.NewBernstein(m, t.k)
	if err != nil {
		return nil, fmt.Errorf("oracle: Bernstein density of %s: %w", key, err)
	}
	pdf := make([]float64, m.Size())
	for i := range pdf {
		pdf[i] = b.PDF(m.Row(i))
	}
	t.cache.set(len(vars), key, pdf)

	return pdf, nil
}

// Statistic returns the standardized Hellinger statistic T for X ⟂ Y | Z.
func (t *HellingerTest) Statistic(x, y int, z []int) (float64, error) {
	if err := checkVars(methodTest, t.Dim(), append([]int{x, y}, z...)); err != nil {
		return 0, err
	}
	with := func(vs ...int) []int { return append(append(make([]int, 0, len(z)+len(vs)), z...), vs...) }

	// 1) Density estimates on the observations.
	fZ, err := t.densities(z)
	if err != nil {
		return 0, err
	}
	fXZ, err := t.densities(with(x))
	if err != nil {
		return 0, err
	}
	fYZ, err := t.densities(with(y))
	if err != nil {
		return 0, err
	}
	fXYZ, err := t.densities(with(x, y))
	if err != nil {
		return 0, err
	}

	// 2) Empirical Hellinger distance and the bias terms.
	n := t.u.Size()
	d := float64(len(z))
	k := float64(t.k)
	pq := func(p float64) float64 { return p * (1 - p) }
	piFactor := math.Pow(4*math.Pi, -(d+1)/2)

	var h, b1, b2, b3 float64
	for i := 0; i < n; i++ {
		fz := 1.0
		if fZ != nil {
			fz = fZ[i]
		}
		ratio := fXYZ[i] * fz
		if ratio <= minRatio {
			continue
		}
		r := 1 - math.Sqrt(fXZ[i]*fYZ[i]/ratio)
		h += r * r

		g := 1.0
		for _, j := range z {
			g /= pq(t.u.At(i, j))
		}
		g = math.Sqrt(g)
		b1 += piFactor * g / (math.Sqrt(pq(t.u.At(i, x))) * fXZ[i])
		b2 += piFactor * g / (math.Sqrt(pq(t.u.At(i, y))) * fYZ[i])
		b3 += fz * g
	}
	nf := float64(n)
	h /= nf

	// 3) Centering and scaling.
	shift := -math.Pow(2, -d) * math.Pow(math.Pi, (d+1)/2)
	b1 = shift + b1/nf
	b2 = shift + b2/nf
	b3 = math.Pow(2, -(d+1)) * math.Pow(math.Pi, -d/2) * b3 / nf
	c1 := math.Pow(2, -(d+2)) * math.Pow(math.Pi, (d+2)/2)
	sigma := math.Sqrt2 * math.Pow(math.Pi/4, (d+2)/2)

	bias := math.Pow(k, d/2) * (c1*k + (b1+b2)*math.Sqrt(k) + b3)

	return math.Pow(k, -(d+2)/2) / sigma * (4*h*nf - bias), nil
}

// Test rejects independence when T is large for N(0,1).
func (t *HellingerTest) Test(x, y int, z []int) (Result, error) {
	if err := checkVars(methodTest, t.Dim(), append([]int{x, y}, z...)); err != nil {
		return Result{}, err
	}
	if insufficient(t.u.Size(), len(z)) {
		return declined(), nil
	}
	stat, err := t.Statistic(x, y, z)
	if err != nil {
		return Result{}, err
	}
	p := distuv.UnitNormal.Survival(stat)
	t.logger.Debug("hellinger test", "x", x, "y", y, "z", z, "t", stat, "p", p)

	return Result{Statistic: stat, PValue: p, Independent: p >= t.alpha}, nil
}

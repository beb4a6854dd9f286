package oracle

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodEntropy      = "Entropy"
	methodInformation  = "Information"
	methodInformation3 = "Information3"
	methodSetInfo      = "SetInformation"
)

// CorrectedMutualInformation estimates copula entropies and (corrected)
// conditional mutual information on a fixed sample. It is safe for
// concurrent use.
type CorrectedMutualInformation struct {
	u      *sample.Sample
	cmode  CMode
	kmode  KMode
	alpha  float64
	cache  *stratifiedCache[float64]
	logger *slog.Logger
}

// NewCorrectedMutualInformation ranks s once and prepares an empty cache.
func NewCorrectedMutualInformation(s *sample.Sample, opts ...Option) (*CorrectedMutualInformation, error) {
	if s == nil {
		return nil, ErrNilSample
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Alpha < 0 || math.IsNaN(o.Alpha) {
		return nil, fmt.Errorf("oracle: correction α=%g: %w", o.Alpha, ErrInvalidAlpha)
	}

	return &CorrectedMutualInformation{
		u:      s.PseudoObservations(),
		cmode:  o.CMode,
		kmode:  o.KMode,
		alpha:  o.Alpha,
		cache:  newStratifiedCache[float64](o.CacheSize),
		logger: orDiscard(o.Logger),
	}, nil
}

// Size returns the number of observations N.
func (c *CorrectedMutualInformation) Size() int { return c.u.Size() }

// Dim returns the number of variables.
func (c *CorrectedMutualInformation) Dim() int { return c.u.Dim() }

// Names returns the variable names.
func (c *CorrectedMutualInformation) Names() []string { return c.u.Names() }

// CMode returns the copula family.
func (c *CorrectedMutualInformation) CMode() CMode { return c.cmode }

// KMode returns the correction.
func (c *CorrectedMutualInformation) KMode() KMode { return c.kmode }

// Alpha returns the Naive correction α.
func (c *CorrectedMutualInformation) Alpha() float64 { return c.alpha }

// PseudoObservations returns the ranked sample the estimates use.
func (c *CorrectedMutualInformation) PseudoObservations() *sample.Sample { return c.u }

// ClearCache drops every memoized entropy.
func (c *CorrectedMutualInformation) ClearCache() { c.cache.clear() }

// ClearCacheLevel drops the entropies of variable sets of the given size.
func (c *CorrectedMutualInformation) ClearCacheLevel(level int) { c.cache.clearLevel(level) }

// CacheStats reports cache usage.
func (c *CorrectedMutualInformation) CacheStats() CacheStats { return c.cache.stats() }

// Entropy returns the copula entropy of vars with the bin rule applied to
// len(vars). Sets of fewer than two variables have zero copula entropy.
func (c *CorrectedMutualInformation) Entropy(vars []int) (float64, error) {
	if err := c.check(methodEntropy, vars); err != nil {
		return 0, err
	}

	return c.entropy(vars, copula.BinNumber(c.Size(), len(vars)))
}

// entropy returns H(vars) for Bernstein order k, memoized.
func (c *CorrectedMutualInformation) entropy(vars []int, k int) (float64, error) {
	if len(vars) < 2 {
		return 0, nil
	}
	key := setKey(vars, 0)
	if c.cmode == Bernstein {
		key = setKey(vars, k)
	}
	if h, ok := c.cache.get(key); ok {
		return h, nil
	}

	m, err := c.u.Marginal(vars)
	if err != nil {
		return 0, err
	}
	var h float64
	switch c.cmode {
	case Gaussian:
		g, err := copula.FitGaussian(m)
		if err != nil {
			return 0, fmt.Errorf("oracle: Gaussian entropy of %s: %w", key, err)
		}
		h = g.Entropy()
	case Bernstein:
		b, err := copula.NewBernstein(m, k)
		if err != nil {
			return 0, fmt.Errorf("oracle: Bernstein entropy of %s: %w", key, err)
		}
		sum := 0.0
		for i := 0; i < m.Size(); i++ {
			sum += b.LogPDF(m.Row(i))
		}
		h = -sum / float64(m.Size())
	default:
		return 0, fmt.Errorf("oracle: %v", c.cmode)
	}
	c.cache.set(len(vars), key, h)
	c.logger.Debug("entropy", "mode", c.cmode, "set", key, "h", h)

	return h, nil
}

// Information returns I(X;Y|U) = H(XU) + H(YU) - H(XYU) - H(U).
func (c *CorrectedMutualInformation) Information(x, y int, u []int) (float64, error) {
	if err := c.check(methodInformation, append([]int{x, y}, u...)); err != nil {
		return 0, err
	}
	k := copula.BinNumber(c.Size(), len(u)+2)
	xu := append(append(make([]int, 0, len(u)+2), u...), x)
	yu := append(append(make([]int, 0, len(u)+2), u...), y)
	xyu := append(append([]int(nil), xu...), y)

	hs, err := c.entropies(k, xu, yu, xyu, u)
	if err != nil {
		return 0, err
	}

	return hs[0] + hs[1] - hs[2] - hs[3], nil
}

// CorrectedInformation returns Information minus the 2-point penalty.
func (c *CorrectedMutualInformation) CorrectedInformation(x, y int, u []int) (float64, error) {
	i, err := c.Information(x, y, u)
	if err != nil {
		return 0, err
	}

	return i - c.penalty2(), nil
}

// Information3 returns the 3-point information I(X;Y;Z|U), positive when Z
// explains part of the X–Y dependence and negative when conditioning on Z
// creates dependence (a collider).
func (c *CorrectedMutualInformation) Information3(x, y, z int, u []int) (float64, error) {
	if err := c.check(methodInformation3, append([]int{x, y, z}, u...)); err != nil {
		return 0, err
	}
	k := copula.BinNumber(c.Size(), len(u)+3)
	with := func(vs ...int) []int { return append(append(make([]int, 0, len(u)+len(vs)), u...), vs...) }

	hs, err := c.entropies(k,
		with(x), with(y), with(z),
		with(x, y), with(x, z), with(y, z),
		with(x, y, z), u)
	if err != nil {
		return 0, err
	}

	return hs[0] + hs[1] + hs[2] - hs[3] - hs[4] - hs[5] + hs[6] - hs[7], nil
}

// CorrectedInformation3 returns Information3 minus the 3-point penalty.
func (c *CorrectedMutualInformation) CorrectedInformation3(x, y, z int, u []int) (float64, error) {
	i, err := c.Information3(x, y, z, u)
	if err != nil {
		return 0, err
	}

	return i - c.penalty3(), nil
}

// SetInformation returns I(X;Y) = H(X) + H(Y) - H(X∪Y) between two
// disjoint variable sets. An empty set shares no information.
func (c *CorrectedMutualInformation) SetInformation(xs, ys []int) (float64, error) {
	all := append(append(make([]int, 0, len(xs)+len(ys)), xs...), ys...)
	if err := c.check(methodSetInfo, all); err != nil {
		return 0, err
	}
	if len(xs) == 0 || len(ys) == 0 {
		return 0, nil
	}
	k := copula.BinNumber(c.Size(), len(all))
	hs, err := c.entropies(k, xs, ys, all)
	if err != nil {
		return 0, err
	}

	return hs[0] + hs[1] - hs[2], nil
}

// CorrectedSetInformation returns SetInformation minus the 2-point penalty.
func (c *CorrectedMutualInformation) CorrectedSetInformation(xs, ys []int) (float64, error) {
	i, err := c.SetInformation(xs, ys)
	if err != nil {
		return 0, err
	}

	return i - c.penalty2(), nil
}

func (c *CorrectedMutualInformation) entropies(k int, sets ...[]int) ([]float64, error) {
	hs := make([]float64, len(sets))
	for i, vars := range sets {
		h, err := c.entropy(vars, k)
		if err != nil {
			return nil, err
		}
		hs[i] = h
	}

	return hs, nil
}

func (c *CorrectedMutualInformation) penalty2() float64 {
	if c.kmode == Naive {
		return c.alpha
	}

	return 0
}

func (c *CorrectedMutualInformation) penalty3() float64 {
	if c.kmode == Naive {
		return -c.alpha
	}

	return 0
}

// check validates that vars are distinct indices in [0, Dim()).
func (c *CorrectedMutualInformation) check(method string, vars []int) error {
	return checkVars(method, c.Dim(), vars)
}

func checkVars(method string, d int, vars []int) error {
	seen := make(map[int]struct{}, len(vars))
	for _, v := range vars {
		if v < 0 || v >= d {
			return fmt.Errorf("%s: variable %d with dim %d: %w", method, v, d, ErrIndexOutOfRange)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%s: variable %d repeated: %w", method, v, ErrOverlappingSets)
		}
		seen[v] = struct{}{}
	}

	return nil
}

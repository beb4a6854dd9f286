package jtbernstein

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/junction"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodNew      = "New"
	methodDraw     = "Draw"
	methodSample   = "Sample"
	methodMarginal = "Marginal"

	// quadPoints is the Gauss-Legendre order of conditional integrals.
	quadPoints = 64
	// bisectSteps halves [0,1] below 1e-15.
	bisectSteps = 52
)

var _ copula.Copula = (*Copula)(nil)

// Copula is an immutable junction-tree Bernstein copula.
type Copula struct {
	jt         *junction.JunctionTree
	k          int
	atoms      *copula.Bernstein
	cliqueVars [][]int
	cliques    []*copula.Bernstein
	sepVars    [][]int
	separators []*copula.Bernstein // nil for empty separators
	edgeOf     map[junction.CliqueEdge]int
	visits     []junction.Visit
	opts       Options
}

// New fits the copula of jt on s. Variable i of jt is column i of s.
func New(jt *junction.JunctionTree, s *sample.Sample, opts ...Option) (*Copula, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(methodNew); err != nil {
		return nil, err
	}

	return newCopula(jt, s, o)
}

func newCopula(jt *junction.JunctionTree, s *sample.Sample, o Options) (*Copula, error) {
	// 1) Inputs.
	if jt == nil || s == nil {
		return nil, ErrNilSample
	}
	if jt.Size() != s.Dim() {
		return nil, fmt.Errorf("%s: tree over %d variables, sample of dim %d: %w",
			methodNew, jt.Size(), s.Dim(), ErrDimensionMismatch)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// 2) Bin number and truncation to a multiple of K.
	n := s.Size()
	k := o.BinNumber
	if k == 0 {
		widest := 1
		for _, c := range jt.Cliques() {
			widest = max(widest, len(c))
		}
		k = copula.BinNumber(n, widest)
	}
	if n < 2 || n < k {
		return nil, fmt.Errorf("%s: %d rows for K=%d: %w", methodNew, n, k, ErrInsufficientData)
	}
	if rem := n % k; rem != 0 {
		logger.Info("dropping rows to a multiple of the bin number", "rows", n, "dropped", rem, "K", k)
		head, err := sample.New(s.Names(), s.Rows()[:n-rem])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodNew, err)
		}
		s = head
	}

	// 3) Shared atoms.
	atoms, err := copula.NewBernstein(s, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodNew, err)
	}

	return fromAtoms(jt, atoms, o)
}

// fromAtoms reads the clique and separator copulas off the shared atoms.
func fromAtoms(jt *junction.JunctionTree, atoms *copula.Bernstein, o Options) (*Copula, error) {
	c := &Copula{
		jt:         jt,
		k:          atoms.Order(),
		atoms:      atoms,
		cliqueVars: jt.Cliques(),
		sepVars:    jt.Separators(),
		edgeOf:     make(map[junction.CliqueEdge]int),
		visits:     jt.Traversal(),
		opts:       o,
	}
	for i, e := range jt.Edges() {
		c.edgeOf[e] = i
	}
	c.cliques = make([]*copula.Bernstein, len(c.cliqueVars))
	c.separators = make([]*copula.Bernstein, len(c.sepVars))

	var eg errgroup.Group
	eg.SetLimit(o.Workers)
	restrict := func(vars []int, dst **copula.Bernstein) {
		eg.Go(func() error {
			m, err := atoms.Marginal(vars)
			if err != nil {
				return err
			}
			*dst = m.(*copula.Bernstein)
			return nil
		})
	}
	for i, vars := range c.cliqueVars {
		restrict(vars, &c.cliques[i])
	}
	for i, vars := range c.sepVars {
		if len(vars) > 0 {
			restrict(vars, &c.separators[i])
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", methodNew, err)
	}

	return c, nil
}

// Dim returns the number of variables.
func (c *Copula) Dim() int { return c.jt.Size() }

// BinNumber returns K.
func (c *Copula) BinNumber() int { return c.k }

// Size returns the number of atoms, a multiple of K.
func (c *Copula) Size() int { return c.atoms.Size() }

// JunctionTree returns the tree.
func (c *Copula) JunctionTree() *junction.JunctionTree { return c.jt }

// LogPDF returns Σ log c_C(u_C) - Σ log c_S(u_S), -Inf outside the open
// unit cube or where a separator density vanishes.
func (c *Copula) LogPDF(u []float64) float64 {
	if len(u) != c.Dim() {
		return math.Inf(-1)
	}
	total := 0.0
	for i, b := range c.separators {
		if b == nil {
			continue
		}
		v := b.LogPDF(gather(u, c.sepVars[i]))
		if math.IsInf(v, -1) {
			return v
		}
		total -= v
	}
	for i, b := range c.cliques {
		total += b.LogPDF(gather(u, c.cliqueVars[i]))
	}

	return total
}

// PDF returns c(u).
func (c *Copula) PDF(u []float64) float64 { return math.Exp(c.LogPDF(u)) }

// conditional returns t ↦ c(y, t) and its integral over (0,1).
func (c *Copula) conditional(y []float64) (func(float64) float64, float64) {
	u := make([]float64, c.Dim())
	copy(u, y)
	last := c.Dim() - 1
	f := func(t float64) float64 {
		v := append([]float64(nil), u...)
		v[last] = t
		return c.PDF(v)
	}

	return f, quad.Fixed(f, 0, 1, quadPoints, nil, 0)
}

// ConditionalPDF is the density of the last variable at x given the first
// Dim()-1 variables y, normalized numerically.
func (c *Copula) ConditionalPDF(x float64, y []float64) float64 {
	if len(y) != c.Dim()-1 || !(x > 0 && x < 1) {
		return 0
	}
	f, z := c.conditional(y)
	if !(z > 0) {
		return 0
	}

	return f(x) / z
}

// ConditionalCDF is P(U_last ≤ x | U_first = y).
func (c *Copula) ConditionalCDF(x float64, y []float64) float64 {
	if len(y) != c.Dim()-1 {
		return math.NaN()
	}
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	f, z := c.conditional(y)
	if !(z > 0) {
		return math.NaN()
	}

	return math.Min(1, quad.Fixed(f, 0, x, quadPoints, nil, 0)/z)
}

// ConditionalQuantile inverts ConditionalCDF by bisection.
func (c *Copula) ConditionalQuantile(q float64, y []float64) float64 {
	if len(y) != c.Dim()-1 || q < 0 || q > 1 {
		return math.NaN()
	}
	f, z := c.conditional(y)
	if !(z > 0) {
		return math.NaN()
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < bisectSteps; i++ {
		mid := 0.5 * (lo + hi)
		if quad.Fixed(f, 0, mid, quadPoints, nil, 0)/z < q {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0.5 * (lo + hi)
}

// Draw returns one point, restarting up to MaxTrials times when a
// separator degenerates.
func (c *Copula) Draw(rng *rand.Rand) ([]float64, error) {
	u, _, err := retryDegenerate(c.opts.MaxTrials, func() ([]float64, error) { return c.draw(rng) })

	return u, err
}

// retryDegenerate calls draw until it succeeds, fails with another error,
// or maxTrials restarts are spent. It also returns the number of calls.
func retryDegenerate(maxTrials int, draw func() ([]float64, error)) ([]float64, int, error) {
	for trial := 0; ; trial++ {
		u, err := draw()
		if err == nil || !errors.Is(err, ErrDegenerateSeparator) || trial >= maxTrials {
			return u, trial + 1, err
		}
	}
}

// draw walks the tree once.
func (c *Copula) draw(rng *rand.Rand) ([]float64, error) {
	u := make([]float64, c.Dim())
	drawn := make([]bool, c.Dim())
	for _, visit := range c.visits {
		if err := c.extend(rng, u, drawn, visit); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// extend draws the variables of the visited clique not yet in u, given
// those already drawn, and marks them drawn.
func (c *Copula) extend(rng *rand.Rand, u []float64, drawn []bool, visit junction.Visit) error {
	vars := c.cliqueVars[visit.Clique]
	b := c.cliques[visit.Clique]
	local := gather(u, vars)
	known := make([]bool, len(vars))
	anyKnown := false
	for j, v := range vars {
		known[j] = drawn[v]
		anyKnown = anyKnown || drawn[v]
	}

	var (
		out []float64
		err error
	)
	if !anyKnown {
		out = b.Rand(rng)
	} else {
		e := junction.CliqueEdge{A: min(visit.Clique, visit.Parent), B: max(visit.Clique, visit.Parent)}
		if i, ok := c.edgeOf[e]; ok && c.separators[i] != nil {
			if math.IsInf(c.separators[i].LogPDF(gather(u, c.sepVars[i])), -1) {
				return fmt.Errorf("%s: clique %d: %w", methodDraw, visit.Clique, ErrDegenerateSeparator)
			}
		}
		if out, err = b.ConditionalRand(rng, local, known); err != nil {
			if errors.Is(err, copula.ErrZeroWeight) {
				return fmt.Errorf("%s: clique %d: %w: %w", methodDraw, visit.Clique, ErrDegenerateSeparator, err)
			}
			return fmt.Errorf("%s: clique %d: %w", methodDraw, visit.Clique, err)
		}
	}
	for j, v := range vars {
		u[v], drawn[v] = out[j], true
	}

	return nil
}

// Rand returns Draw's point, all NaN when the draw failed.
func (c *Copula) Rand(rng *rand.Rand) []float64 {
	u, err := c.Draw(rng)
	if err != nil {
		u = make([]float64, c.Dim())
		for i := range u {
			u[i] = math.NaN()
		}
	}

	return u
}

// Sample draws size points named after the tree variables.
func (c *Copula) Sample(rng *rand.Rand, size int) (*sample.Sample, error) {
	if size < 1 {
		return nil, fmt.Errorf("%s: size %d: %w", methodSample, size, sample.ErrEmpty)
	}
	rows := make([][]float64, size)
	for i := range rows {
		u, err := c.Draw(rng)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", methodSample, i, err)
		}
		rows[i] = u
	}

	return sample.New(c.jt.Names(), rows)
}

// Marginal restricts the copula to indices, in the given order, on the
// marginal junction tree and the same atoms.
func (c *Copula) Marginal(indices []int) (copula.Copula, error) {
	jt, err := c.jt.Marginal(indices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodMarginal, err)
	}
	atoms, err := c.atoms.Marginal(indices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodMarginal, err)
	}

	return fromAtoms(jt, atoms.(*copula.Bernstein), c.opts)
}

func (c *Copula) String() string {
	return fmt.Sprintf("JunctionTreeBernsteinCopula(dim=%d, K=%d, n=%d, cliques=%d)",
		c.Dim(), c.k, c.atoms.Size(), len(c.cliques))
}

func gather(u []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = u[j]
	}

	return out
}

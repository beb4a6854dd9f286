package copula

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/copulanet/sample"
)

// BinNumber returns the Bernstein order 1 + ⌊n^(2/(4+d))⌋ balancing the
// bias and variance of the estimator for n points in dimension d.
func BinNumber(n, d int) int {
	return int(1 + math.Pow(float64(n), 2/(4+float64(d))))
}

// Bernstein is the empirical Bernstein copula of order K.
type Bernstein struct {
	k       int
	d       int
	atoms   [][]int   // n × d, entries in 1..K
	logCoef []float64 // logCoef[r] = log Γ(K+1) - log Γ(r) - log Γ(K-r+1)
}

// NewBernstein builds the copula of order k on the ranks of s.
func NewBernstein(s *sample.Sample, k int) (*Bernstein, error) {
	if s.Size() < 1 {
		return nil, ErrInsufficientData
	}
	if k < 1 {
		return nil, fmt.Errorf("copula: Bernstein order %d < 1: %w", k, ErrInsufficientData)
	}
	n, d := s.Size(), s.Dim()
	atoms := make([][]int, n)
	cells := make([]int, n*d)
	for i := range atoms {
		atoms[i] = cells[i*d : (i+1)*d : (i+1)*d]
	}
	for j := 0; j < d; j++ {
		u := sample.PseudoObservations(s.Column(j))
		for i, v := range u {
			atoms[i][j] = atomOf(v, k)
		}
	}

	return newBernsteinFromAtoms(atoms, d, k), nil
}

// atomOf returns ⌈k·u⌉ clamped into 1..k.
func atomOf(u float64, k int) int {
	r := int(math.Ceil(float64(k) * u))
	if r < 1 {
		r = 1
	}
	if r > k {
		r = k
	}

	return r
}

func newBernsteinFromAtoms(atoms [][]int, d, k int) *Bernstein {
	lk, _ := math.Lgamma(float64(k + 1))
	logCoef := make([]float64, k+1)
	for r := 1; r <= k; r++ {
		la, _ := math.Lgamma(float64(r))
		lb, _ := math.Lgamma(float64(k - r + 1))
		logCoef[r] = lk - la - lb
	}

	return &Bernstein{k: k, d: d, atoms: atoms, logCoef: logCoef}
}

// Dim returns the dimension.
func (b *Bernstein) Dim() int { return b.d }

// Order returns K.
func (b *Bernstein) Order() int { return b.k }

// Size returns the number of atoms.
func (b *Bernstein) Size() int { return len(b.atoms) }

// logBetaTable returns log β(x; r, K-r+1) for r = 1..K (index 0 unused).
func (b *Bernstein) logBetaTable(x float64) []float64 {
	t := make([]float64, b.k+1)
	lx, l1x := math.Log(x), math.Log1p(-x)
	for r := 1; r <= b.k; r++ {
		v := b.logCoef[r]
		if r > 1 {
			v += float64(r-1) * lx
		}
		if b.k > r {
			v += float64(b.k-r) * l1x
		}
		t[r] = v
	}

	return t
}

// logWeights returns, per atom, Σ_j log β(u_j; r_ij, K-r_ij+1) over the
// components j with known[j] (all components when known is nil).
func (b *Bernstein) logWeights(u []float64, known []bool) []float64 {
	tables := make([][]float64, b.d)
	for j := 0; j < b.d; j++ {
		if known == nil || known[j] {
			tables[j] = b.logBetaTable(u[j])
		}
	}
	w := make([]float64, len(b.atoms))
	for i, atom := range b.atoms {
		s := 0.0
		for j, t := range tables {
			if t != nil {
				s += t[atom[j]]
			}
		}
		w[i] = s
	}

	return w
}

// LogPDF returns log c(u).
func (b *Bernstein) LogPDF(u []float64) float64 {
	if len(u) != b.d || !inUnitCube(u) {
		return math.Inf(-1)
	}

	return floats.LogSumExp(b.logWeights(u, nil)) - math.Log(float64(len(b.atoms)))
}

// PDF returns c(u).
func (b *Bernstein) PDF(u []float64) float64 { return math.Exp(b.LogPDF(u)) }

// conditionalWeights returns normalized atom weights given the first d-1
// components, or nil when they carry no density.
func (b *Bernstein) conditionalWeights(y []float64) []float64 {
	if len(y) != b.d-1 || !inUnitCube(y) {
		return nil
	}
	u := make([]float64, b.d)
	copy(u, y)
	known := make([]bool, b.d)
	for j := 0; j < b.d-1; j++ {
		known[j] = true
	}
	return normalizeLog(b.logWeights(u, known))
}

// lastMass sums the conditional atom weights by the bin of the last
// component: mass[r] weighs β(·; r, K-r+1). Nil when y carries no density.
func (b *Bernstein) lastMass(y []float64) []float64 {
	w := b.conditionalWeights(y)
	if w == nil {
		return nil
	}
	mass := make([]float64, b.k+1)
	last := b.d - 1
	for i, atom := range b.atoms {
		mass[atom[last]] += w[i]
	}

	return mass
}

// normalizeLog turns log weights into probabilities, nil if all vanish.
func normalizeLog(lw []float64) []float64 {
	lse := floats.LogSumExp(lw)
	if math.IsInf(lse, -1) || math.IsNaN(lse) {
		return nil
	}
	w := make([]float64, len(lw))
	for i, v := range lw {
		w[i] = math.Exp(v - lse)
	}

	return w
}

// ConditionalPDF returns Σ_i w_i β(x; r_i,last, K-r_i,last+1).
func (b *Bernstein) ConditionalPDF(x float64, y []float64) float64 {
	if !(x > 0 && x < 1) {
		return 0
	}
	mass := b.lastMass(y)
	if mass == nil {
		return 0
	}
	t := b.logBetaTable(x)
	s := 0.0
	for r := 1; r <= b.k; r++ {
		s += mass[r] * math.Exp(t[r])
	}

	return s
}

// ConditionalCDF mixes regularized incomplete Beta functions.
func (b *Bernstein) ConditionalCDF(x float64, y []float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	mass := b.lastMass(y)
	if mass == nil {
		return math.NaN()
	}

	return b.mixtureCDF(mass, x)
}

// mixtureCDF returns Σ_r mass[r] I_x(r, K-r+1), clamped into [0,1].
func (b *Bernstein) mixtureCDF(mass []float64, x float64) float64 {
	s := 0.0
	for r := 1; r <= b.k; r++ {
		if mass[r] > 0 {
			s += mass[r] * distuv.Beta{Alpha: float64(r), Beta: float64(b.k - r + 1)}.CDF(x)
		}
	}

	return math.Min(1, math.Max(0, s))
}

// ConditionalQuantile inverts ConditionalCDF by bisection. The atom
// weights are aggregated once, so each step costs O(K).
func (b *Bernstein) ConditionalQuantile(q float64, y []float64) float64 {
	mass := b.lastMass(y)
	if mass == nil {
		return math.NaN()
	}

	return bisect(func(x float64) float64 { return b.mixtureCDF(mass, x) }, q)
}

// Rand draws an atom uniformly, then each component from its Beta law.
func (b *Bernstein) Rand(rng *rand.Rand) []float64 {
	atom := b.atoms[rng.IntN(len(b.atoms))]
	u := make([]float64, b.d)
	for j, r := range atom {
		u[j] = b.drawBeta(rng, r)
	}

	return u
}

func (b *Bernstein) drawBeta(rng *rand.Rand, r int) float64 {
	return distuv.Beta{Alpha: float64(r), Beta: float64(b.k - r + 1), Src: rng}.Rand()
}

var _ ConditionalSampler = (*Bernstein)(nil)

// ConditionalRand completes u: components with known[j] are kept, the
// others are drawn from the copula conditioned on the known ones. It fails
// with ErrZeroWeight when the known values have zero density.
func (b *Bernstein) ConditionalRand(rng *rand.Rand, u []float64, known []bool) ([]float64, error) {
	if len(u) != b.d || len(known) != b.d {
		return nil, fmt.Errorf("copula: point of length %d/%d for dim %d: %w", len(u), len(known), b.d, ErrDimensionMismatch)
	}
	for j, k := range known {
		if k && !(u[j] > 0 && u[j] < 1) {
			return nil, fmt.Errorf("copula: known component %d = %g: %w", j, u[j], ErrZeroWeight)
		}
	}
	w := normalizeLog(b.logWeights(u, known))
	if w == nil {
		return nil, ErrZeroWeight
	}
	// Draw an atom from the discrete law w.
	pick, acc, target := len(w)-1, 0.0, rng.Float64()
	for i, p := range w {
		acc += p
		if target < acc {
			pick = i
			break
		}
	}
	out := append([]float64(nil), u...)
	for j, k := range known {
		if !k {
			out[j] = b.drawBeta(rng, b.atoms[pick][j])
		}
	}

	return out, nil
}

// Marginal keeps the atoms of the selected components, in the given order.
func (b *Bernstein) Marginal(indices []int) (Copula, error) {
	if err := checkIndices(indices, b.d); err != nil {
		return nil, err
	}
	atoms := make([][]int, len(b.atoms))
	for i, atom := range b.atoms {
		sub := make([]int, len(indices))
		for k, j := range indices {
			sub[k] = atom[j]
		}
		atoms[i] = sub
	}

	return newBernsteinFromAtoms(atoms, len(indices), b.k), nil
}

func (b *Bernstein) String() string {
	return fmt.Sprintf("EmpiricalBernsteinCopula(dim=%d, K=%d, n=%d)", b.d, b.k, len(b.atoms))
}

// BernsteinFactory fits empirical Bernstein copulas. A zero K selects
// BinNumber(n, d).
type BernsteinFactory struct {
	K int
}

// Name returns "Bernstein".
func (BernsteinFactory) Name() string { return "Bernstein" }

// Build fits the copula on the ranks of s.
func (f BernsteinFactory) Build(s *sample.Sample) (Copula, error) {
	k := f.K
	if k <= 0 {
		k = BinNumber(s.Size(), s.Dim())
	}

	return NewBernstein(s, k)
}

package cbn

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/dist"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodNew         = "New"
	methodSample      = "Sample"
	methodComputeMean = "ComputeMean"
)

// unitEps keeps copula coordinates inside the open unit cube: far in the
// tails a marginal CDF rounds to exactly 0 or 1.
const unitEps = 1e-12

// Network is an immutable continuous Bayesian network. Concurrent reads
// and sampling with distinct RNGs need no locking.
type Network struct {
	dag       *core.NamedDAG
	parents   [][]int
	order     []int
	marginals []dist.Distribution
	copulas   []copula.Copula
	reports   []NodeReport
}

// New assembles a network. copulas[v] must have dimension
// len(dag.Parents(v))+1, the node last.
func New(dag *core.NamedDAG, marginals []dist.Distribution, copulas []copula.Copula) (*Network, error) {
	n := dag.Order()
	if len(marginals) != n || len(copulas) != n {
		return nil, fmt.Errorf("%s: %d nodes, %d marginals, %d copulas: %w",
			methodNew, n, len(marginals), len(copulas), ErrDimensionMismatch)
	}
	parents := make([][]int, n)
	for v := 0; v < n; v++ {
		parents[v] = dag.Parents(v)
		if marginals[v] == nil || copulas[v] == nil {
			return nil, fmt.Errorf("%s: node %s has no local model: %w", methodNew, dag.Name(v), ErrDimensionMismatch)
		}
		if copulas[v].Dim() != len(parents[v])+1 {
			return nil, fmt.Errorf("%s: node %s with %d parents has a copula of dim %d: %w",
				methodNew, dag.Name(v), len(parents[v]), copulas[v].Dim(), ErrDimensionMismatch)
		}
	}

	return &Network{
		dag:       dag,
		parents:   parents,
		order:     dag.TopologicalOrder(),
		marginals: append([]dist.Distribution(nil), marginals...),
		copulas:   append([]copula.Copula(nil), copulas...),
	}, nil
}

// Dim returns the number of nodes.
func (n *Network) Dim() int { return n.dag.Order() }

// DAG returns the structure.
func (n *Network) DAG() *core.NamedDAG { return n.dag }

// Names returns the node names.
func (n *Network) Names() []string { return n.dag.Names() }

// Parents returns the parents of v in copula component order.
func (n *Network) Parents(v int) []int { return append([]int(nil), n.parents[v]...) }

// Marginal returns the marginal of node v.
func (n *Network) Marginal(v int) dist.Distribution { return n.marginals[v] }

// Copula returns the local copula of node v.
func (n *Network) Copula(v int) copula.Copula { return n.copulas[v] }

// Reports returns the fitting diagnostics, empty for hand-built networks.
func (n *Network) Reports() []NodeReport { return append([]NodeReport(nil), n.reports...) }

// LogPDF returns log f(x), -Inf outside the support.
func (n *Network) LogPDF(x []float64) float64 {
	if len(x) != n.Dim() {
		return math.NaN()
	}
	u := make([]float64, len(x))
	for v, m := range n.marginals {
		u[v] = clampUnit(m.CDF(x[v]))
	}
	total := 0.0
	for v, m := range n.marginals {
		total += m.LogPDF(x[v])
		if len(n.parents[v]) == 0 {
			continue
		}
		c := n.copulas[v].ConditionalPDF(u[v], gather(u, n.parents[v]))
		if !(c > 0) {
			return math.Inf(-1)
		}
		total += math.Log(c)
	}

	return total
}

// PDF returns f(x).
func (n *Network) PDF(x []float64) float64 { return math.Exp(n.LogPDF(x)) }

// Sample draws size points.
func (n *Network) Sample(rng *rand.Rand, size int) (*sample.Sample, error) {
	if size < 1 {
		return nil, fmt.Errorf("%s: size %d: %w", methodSample, size, sample.ErrEmpty)
	}
	rows := make([][]float64, size)
	for i := range rows {
		rows[i] = n.draw(rng)
	}

	return sample.New(n.Names(), rows)
}

// draw returns one point.
func (n *Network) draw(rng *rand.Rand) []float64 {
	u := make([]float64, n.Dim())
	x := make([]float64, n.Dim())
	for _, v := range n.order {
		w := rng.Float64()
		if len(n.parents[v]) == 0 {
			u[v] = clampUnit(w)
		} else {
			u[v] = clampUnit(conditionalDraw(rng, n.copulas[v], w, gather(u, n.parents[v])))
		}
		x[v] = n.marginals[v].Quantile(u[v])
	}

	return x
}

// ComputeMean estimates the mean by Monte Carlo over size draws.
func (n *Network) ComputeMean(rng *rand.Rand, size int) ([]float64, error) {
	if size < 1 {
		return nil, fmt.Errorf("%s: size %d: %w", methodComputeMean, size, sample.ErrEmpty)
	}
	sum := make([]float64, n.Dim())
	for i := 0; i < size; i++ {
		floats.Add(sum, n.draw(rng))
	}
	floats.Scale(1/float64(size), sum)

	return sum, nil
}

// String lists every node with its parents and local models.
func (n *Network) String() string {
	var sb strings.Builder
	for v := 0; v < n.Dim(); v++ {
		names := make([]string, len(n.parents[v]))
		for i, p := range n.parents[v] {
			names[i] = n.dag.Name(p)
		}
		fmt.Fprintf(&sb, "%s | {%s}: %s, %s\n", n.dag.Name(v), strings.Join(names, ","), n.marginals[v], n.copulas[v])
	}

	return sb.String()
}

// conditionalDraw draws the last component of c given y, directly when c
// samples conditionally and by inverting the conditional CDF at w otherwise.
func conditionalDraw(rng *rand.Rand, c copula.Copula, w float64, y []float64) float64 {
	if cs, ok := c.(copula.ConditionalSampler); ok {
		point := append(append(make([]float64, 0, len(y)+1), y...), 0.5)
		known := make([]bool, len(point))
		for j := range y {
			known[j] = true
		}
		if out, err := cs.ConditionalRand(rng, point, known); err == nil {
			return out[len(y)]
		}
	}

	return c.ConditionalQuantile(w, y)
}

func clampUnit(u float64) float64 { return math.Min(1-unitEps, math.Max(unitEps, u)) }

func gather(u []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = u[j]
	}

	return out
}

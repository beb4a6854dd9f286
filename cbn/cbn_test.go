package cbn_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/copulanet/builder"
	"github.com/katalvlaran/copulanet/cbn"
	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/dist"
	"github.com/katalvlaran/copulanet/jtbernstein"
	"github.com/katalvlaran/copulanet/sample"
)

// bivariateNormal returns a standard normal network A→B with correlation rho.
func bivariateNormal(t *testing.T, rho float64) *cbn.Network {
	t.Helper()
	d, err := core.ParseNamedDAG("A->B")
	require.NoError(t, err)
	g, err := copula.NewBivariateGaussian(rho)
	require.NoError(t, err)
	std := dist.Normal{Mu: 0, Sigma: 1}
	net, err := cbn.New(d,
		[]dist.Distribution{std, std},
		[]copula.Copula{copula.NewIndependent(1), g})
	require.NoError(t, err)

	return net
}

// chainSample draws A→B→C with unit coefficients.
func chainSample(t *testing.T, n int, seed uint64) (*core.NamedDAG, *sample.Sample) {
	t.Helper()
	d, err := builder.BuildDAG(3, nil, builder.Chain())
	require.NoError(t, err)
	s, err := builder.LinearGaussianSample(d, n, builder.WithSeed(seed), builder.WithConstantWeight(1))
	require.NoError(t, err)

	return d, s
}

func TestNew_Errors(t *testing.T) {
	d, err := core.ParseNamedDAG("A->B")
	require.NoError(t, err)
	std := dist.Normal{Mu: 0, Sigma: 1}

	_, err = cbn.New(d, []dist.Distribution{std}, []copula.Copula{copula.NewIndependent(1), copula.NewIndependent(2)})
	assert.ErrorIs(t, err, cbn.ErrDimensionMismatch)
	_, err = cbn.New(d, []dist.Distribution{std, std}, []copula.Copula{copula.NewIndependent(1), copula.NewIndependent(1)})
	assert.ErrorIs(t, err, cbn.ErrDimensionMismatch, "B has one parent")
	_, err = cbn.New(d, []dist.Distribution{std, nil}, []copula.Copula{copula.NewIndependent(1), copula.NewIndependent(2)})
	assert.ErrorIs(t, err, cbn.ErrDimensionMismatch)
}

func TestNetwork_Density(t *testing.T) {
	const rho = 0.5
	net := bivariateNormal(t, rho)
	assert.Equal(t, 2, net.Dim())
	assert.Equal(t, []string{"A", "B"}, net.Names())
	assert.Equal(t, []int{0}, net.Parents(1))
	assert.Empty(t, net.Reports())

	for _, x := range [][]float64{{0, 0}, {0.3, -0.2}, {1.5, 1.1}, {-2, 0.7}} {
		q := (x[0]*x[0] - 2*rho*x[0]*x[1] + x[1]*x[1]) / (1 - rho*rho)
		want := math.Exp(-q/2) / (2 * math.Pi * math.Sqrt(1-rho*rho))
		assert.InDelta(t, want, net.PDF(x), 1e-9, "x=%v", x)
		assert.InDelta(t, math.Log(want), net.LogPDF(x), 1e-9, "x=%v", x)
	}
	assert.True(t, math.IsNaN(net.LogPDF([]float64{0})))

	d, err := core.ParseNamedDAG("A;B")
	require.NoError(t, err)
	box, err := cbn.New(d,
		[]dist.Distribution{dist.Uniform{Min: 0, Max: 1}, dist.Uniform{Min: 0, Max: 2}},
		[]copula.Copula{copula.NewIndependent(1), copula.NewIndependent(1)})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, box.PDF([]float64{0.5, 1.5}), 1e-12)
	assert.True(t, math.IsInf(box.LogPDF([]float64{0.5, 2.5}), -1))
	assert.Contains(t, box.String(), "A | {}")
}

func TestNetwork_DensityTails(t *testing.T) {
	net := bivariateNormal(t, 0.5)
	center := net.LogPDF([]float64{0, 0})
	// Φ(9) rounds to 1 and Φ(-40) to 0.
	for _, x := range [][]float64{{9, 9}, {9, 8.5}, {0, 9}, {-40, -39}} {
		lp := net.LogPDF(x)
		assert.False(t, math.IsInf(lp, 0) || math.IsNaN(lp), "x=%v", x)
		assert.Less(t, lp, center, "x=%v", x)
	}
}

func TestNetwork_Sample(t *testing.T) {
	net := bivariateNormal(t, 0.5)
	rng := rand.New(rand.NewPCG(1, 2))

	_, err := net.Sample(rng, 0)
	assert.ErrorIs(t, err, sample.ErrEmpty)

	s, err := net.Sample(rng, 20000)
	require.NoError(t, err)
	assert.Equal(t, 20000, s.Size())
	assert.Equal(t, []string{"A", "B"}, s.Names())
	for j, m := range s.Mean() {
		assert.InDelta(t, 0, m, 0.03, "mean of column %d", j)
	}
	assert.InDelta(t, 0.5, s.Correlation().At(0, 1), 0.03)
}

func TestNetwork_SampleRefit(t *testing.T) {
	if testing.Short() {
		t.Skip("fits and samples 10,000 points")
	}
	const n = 10000
	d, err := core.ParseNamedDAG("A->B->C")
	require.NoError(t, err)
	g, err := copula.NewBivariateGaussian(0.5)
	require.NoError(t, err)
	mu := []float64{1, -2, 0.5}
	net, err := cbn.New(d,
		[]dist.Distribution{dist.Normal{Mu: 1, Sigma: 1}, dist.Normal{Mu: -2, Sigma: 2}, dist.Normal{Mu: 0.5, Sigma: 0.5}},
		[]copula.Copula{copula.NewIndependent(1), g, g})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(11, 12))
	first, err := net.Sample(rng, n)
	require.NoError(t, err)
	f, err := cbn.NewFactory(cbn.WithDAG(d))
	require.NoError(t, err)
	refit, err := f.Build(first)
	require.NoError(t, err)
	for _, r := range refit.Reports()[1:] {
		assert.Equal(t, "Bernstein", r.Copula, r.Name)
	}
	second, err := refit.Sample(rng, n)
	require.NoError(t, err)

	for j, name := range second.Names() {
		m1, v1 := stat.MeanVariance(first.Column(j), nil)
		m2, v2 := stat.MeanVariance(second.Column(j), nil)
		se := math.Sqrt((v1 + v2) / n)
		assert.InDelta(t, m1, m2, 3*se, "mean of %s against the fitted sample", name)
		assert.InDelta(t, mu[j], m2, 5*math.Sqrt(v2/n), "mean of %s", name)
	}
	corr := second.Correlation()
	assert.Greater(t, corr.At(0, 1), 0.35)
	assert.Greater(t, corr.At(1, 2), 0.35)
}

func TestNetwork_ComputeMean(t *testing.T) {
	d, err := core.ParseNamedDAG("A->B")
	require.NoError(t, err)
	g, err := copula.NewBivariateGaussian(-0.4)
	require.NoError(t, err)
	net, err := cbn.New(d,
		[]dist.Distribution{dist.Normal{Mu: 1, Sigma: 1}, dist.Normal{Mu: -2, Sigma: 2}},
		[]copula.Copula{copula.NewIndependent(1), g})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	_, err = net.ComputeMean(rng, -1)
	assert.ErrorIs(t, err, sample.ErrEmpty)
	mean, err := net.ComputeMean(rng, 20000)
	require.NoError(t, err)
	assert.InDelta(t, 1, mean[0], 0.05)
	assert.InDelta(t, -2, mean[1], 0.1)
}

func TestNewFactory_Errors(t *testing.T) {
	for name, opt := range map[string]cbn.Option{
		"alpha":        cbn.WithAlpha(0),
		"alpha one":    cbn.WithAlpha(1),
		"ratio":        cbn.WithLearningRatio(1),
		"copulas":      cbn.WithCopulaFactories(),
		"marginals":    cbn.WithMarginalFactories(),
		"max parents":  cbn.WithMaxParents(-1),
		"max cond set": cbn.WithMaxConditioningSetSize(-1),
		"workers":      cbn.WithWorkers(0),
	} {
		_, err := cbn.NewFactory(opt)
		assert.ErrorIs(t, err, cbn.ErrInvalidOption, name)
	}

	// Copula space needs no marginal family.
	_, err := cbn.NewFactory(cbn.WithMarginalFactories(), cbn.WithWorkInCopulaSpace())
	assert.NoError(t, err)
}

func TestFactory_BuildErrors(t *testing.T) {
	f, err := cbn.NewFactory()
	require.NoError(t, err)
	_, err = f.Build(nil)
	assert.ErrorIs(t, err, cbn.ErrNilSample)

	_, s := chainSample(t, 200, 1)
	for _, proto := range []string{"A->B", "A->B;D"} {
		d, err := core.ParseNamedDAG(proto)
		require.NoError(t, err)
		f, err = cbn.NewFactory(cbn.WithDAG(d))
		require.NoError(t, err)
		_, err = f.Build(s)
		assert.ErrorIs(t, err, cbn.ErrDimensionMismatch, proto)
	}
}

func TestFactory_Build(t *testing.T) {
	d, s := chainSample(t, 1000, 2)
	f, err := cbn.NewFactory(
		cbn.WithDAG(d),
		cbn.WithMarginalFactories(dist.NormalFactory{}),
		cbn.WithCopulaFactories(copula.GaussianFactory{}))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	reports := net.Reports()
	require.Len(t, reports, 3)
	assert.Equal(t, "Independent", reports[0].Copula)
	for _, r := range reports {
		assert.Equal(t, cbn.FallbackNone, r.Fallback, r.Name)
		assert.Equal(t, "Normal", r.Marginal, r.Name)
	}
	for _, v := range []int{1, 2} {
		assert.Equal(t, "Gaussian", reports[v].Copula)
		assert.Less(t, reports[v].PValue, 1e-6)
		assert.Equal(t, 2, net.Copula(v).Dim())
	}
	assert.Equal(t, 1, net.Copula(0).Dim())

	lp := net.LogPDF([]float64{0, 0, 0})
	assert.False(t, math.IsInf(lp, 0) || math.IsNaN(lp))
	assert.InDelta(t, math.Exp(lp), net.PDF([]float64{0, 0, 0}), 1e-12)
}

func TestFactory_Defaults(t *testing.T) {
	d, s := chainSample(t, 500, 3)
	f, err := cbn.NewFactory(cbn.WithDAG(d))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	for _, r := range net.Reports() {
		assert.Equal(t, "KernelSmoothing", r.Marginal)
	}
	assert.Equal(t, "Bernstein", net.Reports()[2].Copula)
	assert.Greater(t, net.PDF([]float64{0, 0, 0}), 0.0)

	x, err := net.Sample(rand.New(rand.NewPCG(5, 6)), 100)
	require.NoError(t, err)
	assert.Equal(t, 3, x.Dim())
}

func TestFactory_MaxParents(t *testing.T) {
	d, s := chainSample(t, 500, 4)
	f, err := cbn.NewFactory(cbn.WithDAG(d), cbn.WithMaxParents(0),
		cbn.WithMarginalFactories(dist.NormalFactory{}))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	for v, r := range net.Reports() {
		assert.IsType(t, copula.Independent{}, net.Copula(v))
		if v > 0 {
			assert.Equal(t, cbn.FallbackMaxParents, r.Fallback)
		}
	}
}

func TestFactory_NotSignificant(t *testing.T) {
	empty, err := builder.BuildDAG(2, nil)
	require.NoError(t, err)
	s, err := builder.LinearGaussianSample(empty, 1000, builder.WithSeed(7))
	require.NoError(t, err)

	d, err := core.ParseNamedDAG("A->B")
	require.NoError(t, err)
	f, err := cbn.NewFactory(cbn.WithDAG(d), cbn.WithAlpha(0.001),
		cbn.WithMarginalFactories(dist.NormalFactory{}),
		cbn.WithCopulaFactories(copula.GaussianFactory{}))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	r := net.Reports()[1]
	assert.Equal(t, cbn.FallbackNotSignificant, r.Fallback)
	assert.GreaterOrEqual(t, r.PValue, 0.001)
	assert.Equal(t, copula.NewIndependent(2), net.Copula(1))
}

func TestFactory_Selection(t *testing.T) {
	d, s := chainSample(t, 1000, 5)
	f, err := cbn.NewFactory(cbn.WithDAG(d),
		cbn.WithMarginalFactories(dist.UniformFactory{}, dist.NormalFactory{}),
		cbn.WithCopulaFactories(copula.IndependentFactory{}, copula.GaussianFactory{}))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	for v, r := range net.Reports() {
		assert.Equal(t, "Normal", r.Marginal, r.Name)
		if v > 0 {
			assert.Equal(t, "Gaussian", r.Copula, r.Name)
			assert.Greater(t, r.Score, 0.0)
		}
	}
}

func TestFactory_CopulaSpace(t *testing.T) {
	d, s := chainSample(t, 500, 6)
	f, err := cbn.NewFactory(cbn.WithDAG(d), cbn.WithWorkInCopulaSpace(),
		cbn.WithCopulaFactories(copula.GaussianFactory{}))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	for v := 0; v < net.Dim(); v++ {
		assert.Equal(t, dist.Uniform{Min: 0, Max: 1}, net.Marginal(v))
	}
	x, err := net.Sample(rand.New(rand.NewPCG(7, 8)), 200)
	require.NoError(t, err)
	for _, row := range x.Rows() {
		for _, u := range row {
			assert.True(t, u >= 0 && u <= 1)
		}
	}
}

func TestFactory_LearnsStructure(t *testing.T) {
	_, s := chainSample(t, 1000, 8)
	f, err := cbn.NewFactory(cbn.WithAlpha(1e-3),
		cbn.WithMarginalFactories(dist.NormalFactory{}),
		cbn.WithCopulaFactories(copula.GaussianFactory{}))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	dag := net.DAG()
	assert.Equal(t, 2, dag.NumArcs())
	assert.False(t, dag.HasArc(0, 2) || dag.HasArc(2, 0))
}

func TestFactory_Workers(t *testing.T) {
	d, s := chainSample(t, 600, 9)
	build := func(workers int) *cbn.Network {
		f, err := cbn.NewFactory(cbn.WithDAG(d), cbn.WithWorkers(workers),
			cbn.WithMarginalFactories(dist.NormalFactory{}),
			cbn.WithCopulaFactories(copula.IndependentFactory{}, copula.GaussianFactory{}))
		require.NoError(t, err)
		net, err := f.Build(s)
		require.NoError(t, err)
		return net
	}
	one, four := build(1), build(4)
	assert.Equal(t, one.String(), four.String())
	assert.Equal(t, one.Reports(), four.Reports())
}

func TestFactory_JunctionTreeFamily(t *testing.T) {
	d, s := chainSample(t, 600, 10)
	jt, err := jtbernstein.NewFactory(jtbernstein.WithAlpha(1e-3))
	require.NoError(t, err)
	f, err := cbn.NewFactory(cbn.WithDAG(d),
		cbn.WithMarginalFactories(dist.NormalFactory{}),
		cbn.WithCopulaFactories(jt))
	require.NoError(t, err)
	net, err := f.Build(s)
	require.NoError(t, err)

	assert.Equal(t, "JunctionTreeBernstein", net.Reports()[1].Copula)
	assert.IsType(t, &jtbernstein.Copula{}, net.Copula(2))
	p := net.PDF([]float64{0, 0, 0})
	assert.Greater(t, p, 0.0)
	assert.False(t, math.IsInf(p, 0))
}

func TestFactory_MarginalFallback(t *testing.T) {
	_, s := chainSample(t, 300, 12)
	constant := make([]float64, s.Size())
	for i := range constant {
		constant[i] = 4
	}
	data, err := sample.FromColumns([]string{"A", "B", "K"}, [][]float64{s.Column(0), s.Column(1), constant})
	require.NoError(t, err)
	d, err := core.ParseNamedDAG("A->B;K")
	require.NoError(t, err)
	f, err := cbn.NewFactory(cbn.WithDAG(d),
		cbn.WithMarginalFactories(dist.NormalFactory{}),
		cbn.WithCopulaFactories(copula.GaussianFactory{}))
	require.NoError(t, err)
	net, err := f.Build(data)
	require.NoError(t, err)

	reports := net.Reports()
	for _, r := range reports[:2] {
		assert.NoError(t, r.MarginalErr, r.Name)
		assert.Equal(t, "Normal", r.Marginal, r.Name)
	}
	k := reports[2]
	assert.ErrorIs(t, k.MarginalErr, cbn.ErrMarginalFit)
	assert.ErrorIs(t, k.MarginalErr, dist.ErrDegenerateSupport)
	assert.Equal(t, "Uniform", k.Marginal)
	assert.Equal(t, dist.Uniform{Min: 3.5, Max: 4.5}, net.Marginal(2))
	assert.Equal(t, "Gaussian", reports[1].Copula)

	lp := net.LogPDF([]float64{0, 0, 4})
	assert.False(t, math.IsInf(lp, 0) || math.IsNaN(lp))
}

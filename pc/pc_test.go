package pc_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/pc"
	"github.com/katalvlaran/copulanet/sample"
)

// chainSample draws A→B→C plus an independent D.
func chainSample(t *testing.T, n int, rho float64, seed uint64) *sample.Sample {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 11))
	s := math.Sqrt(1 - rho*rho)
	rows := make([][]float64, n)
	for i := range rows {
		a := rng.NormFloat64()
		b := rho*a + s*rng.NormFloat64()
		c := rho*b + s*rng.NormFloat64()
		rows[i] = []float64{a, b, c, rng.NormFloat64()}
	}
	out, err := sample.New([]string{"A", "B", "C", "D"}, rows)
	require.NoError(t, err)

	return out
}

// colliderSample draws A→C←B.
func colliderSample(t *testing.T, n int, seed uint64) *sample.Sample {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 13))
	rows := make([][]float64, n)
	for i := range rows {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		rows[i] = []float64{a, b, 0.6*a + 0.6*b + 0.5*rng.NormFloat64()}
	}
	out, err := sample.New([]string{"A", "B", "C"}, rows)
	require.NoError(t, err)

	return out
}

func TestNew_Errors(t *testing.T) {
	_, err := pc.New(nil)
	assert.ErrorIs(t, err, pc.ErrNilSample)

	s := chainSample(t, 100, 0.5, 1)
	_, err = pc.New(s, pc.WithAlpha(1.5))
	assert.ErrorIs(t, err, pc.ErrInvalidOption)
	_, err = pc.New(s, pc.WithWorkers(0))
	assert.ErrorIs(t, err, pc.ErrInvalidOption)
	_, err = pc.New(s, pc.WithMaxConditioningSetSize(-1))
	assert.ErrorIs(t, err, pc.ErrInvalidOption)

	other := colliderSample(t, 100, 1)
	info, err := oracle.NewCorrectedMutualInformation(other, oracle.WithCMode(oracle.Gaussian))
	require.NoError(t, err)
	tester, err := oracle.NewCMITest(info, 0.05)
	require.NoError(t, err)
	_, err = pc.New(s, pc.WithTester(tester))
	assert.ErrorIs(t, err, pc.ErrDimensionMismatch)
}

func TestLearnSkeleton_Chain(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		s := chainSample(t, 1000, 0.5, seed)
		l, err := pc.New(s, pc.WithAlpha(1e-3))
		require.NoError(t, err)

		g, err := l.LearnSkeleton()
		require.NoError(t, err)
		assert.True(t, g.HasUndirectedEdge(0, 1), "seed %d: A-B", seed)
		assert.True(t, g.HasUndirectedEdge(1, 2), "seed %d: B-C", seed)
		assert.False(t, g.Adjacent(0, 2), "seed %d: A-C", seed)
		assert.Equal(t, 0, g.Degree(3), "seed %d: D isolated", seed)

		sep, ok := l.Sepset(0, 2)
		require.True(t, ok)
		assert.Equal(t, []int{1}, sep)

		p, err := l.PValue(0, 2)
		require.NoError(t, err)
		assert.Greater(t, p, 1e-3)
		_, err = l.Statistic(0, 1)
		require.NoError(t, err)
	}
}

func TestLearnSkeleton_ChainRate(t *testing.T) {
	const (
		seeds = 200
		n     = 1000
		rho   = 0.5
	)
	recovered := 0
	for seed := uint64(1); seed <= seeds; seed++ {
		rng := rand.New(rand.NewPCG(seed, 17))
		rows := make([][]float64, n)
		for i := range rows {
			a := rng.NormFloat64()
			b := rho*a + math.Sqrt(1-rho*rho)*rng.NormFloat64()
			rows[i] = []float64{a, b, rho*b + math.Sqrt(1-rho*rho)*rng.NormFloat64()}
		}
		s, err := sample.New([]string{"A", "B", "C"}, rows)
		require.NoError(t, err)
		l, err := pc.New(s)
		require.NoError(t, err)
		g, err := l.LearnSkeleton()
		require.NoError(t, err)
		if g.HasUndirectedEdge(0, 1) && g.HasUndirectedEdge(1, 2) && !g.Adjacent(0, 2) {
			recovered++
		}
	}
	assert.Greater(t, float64(recovered)/seeds, 0.9, "recovered %d of %d", recovered, seeds)
}

func TestLearnSkeleton_OrderZeroOnly(t *testing.T) {
	s := chainSample(t, 1000, 0.5, 4)
	l, err := pc.New(s, pc.WithAlpha(1e-3), pc.WithMaxConditioningSetSize(0))
	require.NoError(t, err)

	g, err := l.LearnSkeleton()
	require.NoError(t, err)
	// A and C are marginally dependent, so only D's edges go.
	assert.Equal(t, 3, g.EdgeCount())
	assert.True(t, g.Adjacent(0, 2))
	for _, e := range l.RemovedEdges() {
		assert.Equal(t, 3, e[1])
	}
}

func TestLearnPDAG_Collider(t *testing.T) {
	s := colliderSample(t, 1000, 5)
	l, err := pc.New(s, pc.WithAlpha(1e-3))
	require.NoError(t, err)

	g, err := l.LearnPDAG()
	require.NoError(t, err)
	assert.True(t, g.HasArc(0, 2))
	assert.True(t, g.HasArc(1, 2))
	assert.False(t, g.Adjacent(0, 1))
	assert.Equal(t, 0, g.UndirectedCount())

	d, err := l.LearnDAG()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, d.Parents(2))
}

func TestLearnDAG_ChainStaysAcyclic(t *testing.T) {
	s := chainSample(t, 1000, 0.5, 6)
	l, err := pc.New(s, pc.WithAlpha(1e-3))
	require.NoError(t, err)

	g, err := l.LearnPDAG()
	require.NoError(t, err)
	// No v-structure: the chain stays undirected.
	assert.Equal(t, 2, g.UndirectedCount())

	d, err := l.LearnDAG()
	require.NoError(t, err)
	assert.Equal(t, 2, d.NumArcs())
	// A→B←C would be a new collider.
	assert.False(t, d.HasArc(0, 1) && d.HasArc(2, 1))

	again, err := l.LearnDAG()
	require.NoError(t, err)
	assert.True(t, d.Equal(again))
}

func TestWorkersAndPolicy(t *testing.T) {
	s := chainSample(t, 800, 0.5, 7)
	base, err := pc.New(s, pc.WithAlpha(1e-3))
	require.NoError(t, err)
	want, err := base.LearnSkeleton()
	require.NoError(t, err)

	for name, opts := range map[string][]pc.Option{
		"workers": {pc.WithAlpha(1e-3), pc.WithWorkers(4)},
		"optimal": {pc.WithAlpha(1e-3), pc.WithOptimalPolicy(), pc.WithWorkers(2)},
	} {
		t.Run(name, func(t *testing.T) {
			l, err := pc.New(s, opts...)
			require.NoError(t, err)
			got, err := l.LearnSkeleton()
			require.NoError(t, err)
			assert.Equal(t, want.Edges(), got.Edges())
		})
	}
}

func TestUnknownEdgeAndDOT(t *testing.T) {
	s := colliderSample(t, 500, 8)
	l, err := pc.New(s, pc.WithAlpha(1e-3))
	require.NoError(t, err)

	_, err = l.PValue(0, 1)
	assert.ErrorIs(t, err, pc.ErrUnknownEdge)

	dot, err := l.PDAGDOT()
	require.NoError(t, err)
	assert.Contains(t, dot, `digraph "pdag"`)
	assert.Contains(t, dot, `"A" -> "C"`)
	assert.Contains(t, dot, "p=")

	jt, err := l.LearnJunctionTree()
	require.NoError(t, err)
	assert.Equal(t, 1, jt.CliqueCount())
}

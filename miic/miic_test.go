package miic_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/miic"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/sample"
)

// diamondSample draws A→C←B, C→D with independent A and B.
func diamondSample(t *testing.T, n int, seed uint64) *sample.Sample {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 17))
	rows := make([][]float64, n)
	for i := range rows {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		c := 0.6*a + 0.6*b + 0.5*rng.NormFloat64()
		d := 0.8*c + 0.6*rng.NormFloat64()
		rows[i] = []float64{a, b, c, d}
	}
	out, err := sample.New([]string{"A", "B", "C", "D"}, rows)
	require.NoError(t, err)

	return out
}

func gaussianNaive() []miic.Option {
	return []miic.Option{miic.WithCMode(oracle.Gaussian), miic.WithKMode(oracle.Naive), miic.WithAlpha(0.01)}
}

func TestNew_Errors(t *testing.T) {
	_, err := miic.New(nil)
	assert.ErrorIs(t, err, miic.ErrNilSample)

	s := diamondSample(t, 50, 1)
	_, err = miic.New(s, miic.WithWorkers(0))
	assert.ErrorIs(t, err, miic.ErrInvalidOption)
	_, err = miic.New(s, miic.WithAlpha(-1))
	assert.ErrorIs(t, err, oracle.ErrInvalidAlpha)

	small, err := s.Marginal([]int{0, 1})
	require.NoError(t, err)
	info, err := oracle.NewCorrectedMutualInformation(small)
	require.NoError(t, err)
	_, err = miic.New(s, miic.WithInformation(info))
	assert.ErrorIs(t, err, miic.ErrDimensionMismatch)
}

func TestLearnSkeleton_Diamond(t *testing.T) {
	s := diamondSample(t, 1000, 2)
	l, err := miic.New(s, gaussianNaive()...)
	require.NoError(t, err)

	g, err := l.LearnSkeleton()
	require.NoError(t, err)
	assert.True(t, g.HasUndirectedEdge(0, 2), "A-C")
	assert.True(t, g.HasUndirectedEdge(1, 2), "B-C")
	assert.True(t, g.HasUndirectedEdge(2, 3), "C-D")
	assert.Equal(t, 3, g.EdgeCount())

	sep, ok := l.Sepset(0, 1)
	require.True(t, ok)
	assert.Empty(t, sep)
	sep, ok = l.Sepset(0, 3)
	require.True(t, ok)
	assert.Equal(t, []int{2}, sep)
	_, ok = l.Sepset(0, 2)
	assert.False(t, ok)
}

func TestLearnPDAG_DiamondCollider(t *testing.T) {
	s := diamondSample(t, 1000, 3)
	l, err := miic.New(s, append(gaussianNaive(), miic.WithWorkers(3))...)
	require.NoError(t, err)

	g, err := l.LearnPDAG()
	require.NoError(t, err)
	assert.True(t, g.HasArc(0, 2), "A→C")
	assert.True(t, g.HasArc(1, 2), "B→C")
	assert.True(t, g.HasArc(2, 3), "C→D by propagation")

	scores := l.Scores()
	require.Len(t, scores, 3)
	assert.Equal(t, 2, scores[0].Z)
	assert.Less(t, scores[0].I3, 0.0)
	for _, sc := range scores[1:] {
		assert.Greater(t, sc.I3, 0.0)
	}

	d, err := l.LearnDAG()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, d.Parents(2))
	assert.Equal(t, []int{2}, d.Parents(3))
}

func TestStagesAreCached(t *testing.T) {
	s := diamondSample(t, 500, 4)
	l, err := miic.New(s, gaussianNaive()...)
	require.NoError(t, err)

	first, err := l.LearnSkeleton()
	require.NoError(t, err)
	// Mutating a returned copy does not leak into the cache.
	for _, e := range first.Edges() {
		require.NoError(t, first.RemoveEdge(e.From, e.To))
	}
	second, err := l.LearnSkeleton()
	require.NoError(t, err)
	assert.Positive(t, second.EdgeCount())

	d1, err := l.LearnDAG()
	require.NoError(t, err)
	d2, err := l.LearnDAG()
	require.NoError(t, err)
	assert.True(t, d1.Equal(d2))
}

func TestMaxConditioningSetSizeZero(t *testing.T) {
	s := diamondSample(t, 1000, 5)
	l, err := miic.New(s, append(gaussianNaive(), miic.WithMaxConditioningSetSize(0))...)
	require.NoError(t, err)

	g, err := l.LearnSkeleton()
	require.NoError(t, err)
	// Only the marginally independent pair goes.
	assert.Equal(t, 5, g.EdgeCount())
	assert.False(t, g.Adjacent(0, 1))
}

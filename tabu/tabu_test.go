package tabu_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/builder"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/sample"
	"github.com/katalvlaran/copulanet/tabu"
)

// chainSample draws A→B→C with unit coefficients.
func chainSample(t *testing.T, n int, seed uint64) *sample.Sample {
	t.Helper()
	d, err := builder.BuildDAG(3, nil, builder.Chain())
	require.NoError(t, err)
	s, err := builder.LinearGaussianSample(d, n, builder.WithSeed(seed), builder.WithConstantWeight(1))
	require.NoError(t, err)

	return s
}

func TestNew_Errors(t *testing.T) {
	_, err := tabu.New(nil)
	assert.ErrorIs(t, err, tabu.ErrNilSample)

	s := chainSample(t, 100, 1)
	for name, opt := range map[string]tabu.Option{
		"max parents": tabu.WithMaxParents(-1),
		"restarts":    tabu.WithRestarts(0),
		"tabu size":   tabu.WithTabuListSize(-1),
		"iterations":  tabu.WithMaxIterations(-1),
	} {
		_, err = tabu.New(s, opt)
		assert.ErrorIs(t, err, tabu.ErrInvalidOption, name)
	}

	wrong, err := core.ParseNamedDAG("A->B;D")
	require.NoError(t, err)
	_, err = tabu.New(s, tabu.WithInitialDAG(wrong))
	assert.ErrorIs(t, err, tabu.ErrDimensionMismatch)
	small, err := core.ParseNamedDAG("A->B")
	require.NoError(t, err)
	_, err = tabu.New(s, tabu.WithInitialDAG(small))
	assert.ErrorIs(t, err, tabu.ErrDimensionMismatch)
}

func TestLearnDAG_Chain(t *testing.T) {
	s := chainSample(t, 2000, 2)
	l, err := tabu.New(s)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(l.BestScore()))

	d, err := l.LearnDAG()
	require.NoError(t, err)
	assert.Equal(t, 2, d.NumArcs())
	assert.True(t, d.HasArc(0, 1) || d.HasArc(1, 0), "A-B")
	assert.True(t, d.HasArc(1, 2) || d.HasArc(2, 1), "B-C")
	assert.False(t, d.HasArc(0, 2) || d.HasArc(2, 0), "A-C")

	best := l.BestScore()
	assert.Greater(t, best, 0.0)
	score, err := l.Score(d)
	require.NoError(t, err)
	assert.InDelta(t, score, best, 1e-6)

	// The empty DAG scores zero and the search only improves.
	empty, err := core.NewEmptyDAG(s.Names())
	require.NoError(t, err)
	zero, err := l.Score(empty)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)

	again, err := l.LearnDAG()
	require.NoError(t, err)
	assert.Same(t, d, again)
}

func TestLearnDAG_MaxParentsZero(t *testing.T) {
	s := chainSample(t, 500, 3)
	l, err := tabu.New(s, tabu.WithMaxParents(0), tabu.WithRestarts(2))
	require.NoError(t, err)

	d, err := l.LearnDAG()
	require.NoError(t, err)
	assert.Equal(t, 0, d.NumArcs())
	assert.Equal(t, 0.0, l.BestScore())
}

func TestLearnDAG_RestartsDeterministic(t *testing.T) {
	s := chainSample(t, 1000, 4)
	opts := []tabu.Option{tabu.WithRestarts(3), tabu.WithSeed(42), tabu.WithTabuListSize(3)}

	a, err := tabu.New(s, opts...)
	require.NoError(t, err)
	da, err := a.LearnDAG()
	require.NoError(t, err)
	b, err := tabu.New(s, opts...)
	require.NoError(t, err)
	db, err := b.LearnDAG()
	require.NoError(t, err)

	assert.True(t, da.Equal(db))
	assert.Equal(t, a.BestScore(), b.BestScore())
	assert.Equal(t, 3, a.Restarts())
	assert.Equal(t, tabu.DefaultMaxParents, a.MaxParents())
}

func TestLearnDAG_InitialDAG(t *testing.T) {
	s := chainSample(t, 2000, 5)
	// Names in a different order and a spurious arc.
	init, err := core.ParseNamedDAG("C->A;B")
	require.NoError(t, err)
	l, err := tabu.New(s, tabu.WithInitialDAG(init))
	require.NoError(t, err)

	d, err := l.LearnDAG()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, d.Names())
	assert.False(t, d.HasArc(0, 2) || d.HasArc(2, 0), "spurious arc removed")
	assert.Equal(t, 2, d.NumArcs())
}

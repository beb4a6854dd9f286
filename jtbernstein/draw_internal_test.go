package jtbernstein

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/builder"
	"github.com/katalvlaran/copulanet/junction"
)

func TestExtend_DegenerateSeparator(t *testing.T) {
	d, err := builder.BuildDAG(3, nil, builder.Chain())
	require.NoError(t, err)
	s, err := builder.LinearGaussianSample(d, 500, builder.WithSeed(7), builder.WithConstantWeight(1))
	require.NoError(t, err)
	jt, err := junction.New([]string{"A", "B", "C"}, [][]int{{0, 1}, {1, 2}}, []junction.CliqueEdge{{A: 0, B: 1}})
	require.NoError(t, err)
	c, err := New(jt, s, WithBinNumber(5))
	require.NoError(t, err)

	require.Len(t, c.visits, 2)
	child := c.visits[1]
	sep, err := jt.Separator(child.Clique, child.Parent)
	require.NoError(t, err)
	require.Equal(t, []int{1}, sep)

	// The parent clique is drawn, its separator variable set to b.
	given := func(b float64) ([]float64, []bool) {
		u, drawn := make([]float64, 3), make([]bool, 3)
		for _, v := range c.cliqueVars[child.Parent] {
			u[v], drawn[v] = 0.5, true
		}
		u[1] = b

		return u, drawn
	}
	rng := rand.New(rand.NewPCG(1, 2))

	u, drawn := given(0.4)
	require.NoError(t, c.extend(rng, u, drawn, child))
	assert.Equal(t, []bool{true, true, true}, drawn)
	assert.Equal(t, 0.4, u[1])
	for _, v := range u {
		assert.True(t, v > 0 && v < 1)
	}

	for _, b := range []float64{0, 1, math.NaN()} {
		u, drawn = given(b)
		err = c.extend(rng, u, drawn, child)
		assert.ErrorIs(t, err, ErrDegenerateSeparator, "separator value %g", b)
	}
}

func TestRetryDegenerate(t *testing.T) {
	// failFirst fails with a degenerate separator k times, then succeeds.
	failFirst := func(k int) func() ([]float64, error) {
		calls := 0
		return func() ([]float64, error) {
			calls++
			if calls <= k {
				return nil, fmt.Errorf("%s: clique 1: %w", methodDraw, ErrDegenerateSeparator)
			}
			return []float64{0.5}, nil
		}
	}

	u, calls, err := retryDegenerate(3, failFirst(2))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []float64{0.5}, u)

	_, calls, err = retryDegenerate(3, failFirst(10))
	assert.ErrorIs(t, err, ErrDegenerateSeparator)
	assert.Equal(t, 4, calls, "one draw plus three restarts")

	_, calls, err = retryDegenerate(0, failFirst(1))
	assert.ErrorIs(t, err, ErrDegenerateSeparator)
	assert.Equal(t, 1, calls, "no rejection without MaxTrials")

	boom := errors.New("boom")
	_, calls, err = retryDegenerate(5, func() ([]float64, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "other errors are not retried")
}

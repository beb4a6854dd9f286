// SPDX-License-Identifier: MIT

package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/core"
)

var abcd = []string{"A", "B", "C", "D"}

// MustPDAG builds an edgeless PDAG or fails the test.
func MustPDAG(t *testing.T, names []string) *core.PDAG {
	t.Helper()
	g, err := core.NewPDAG(names)
	require.NoError(t, err)

	return g
}

func TestNewPDAG_Names(t *testing.T) {
	_, err := core.NewPDAG([]string{"A", ""})
	assert.ErrorIs(t, err, core.ErrEmptyName)

	_, err = core.NewPDAG([]string{"A", "B", "A"})
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	g := MustPDAG(t, abcd)
	assert.Equal(t, 4, g.Order())
	i, ok := g.Index("C")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "D", g.Name(3))
}

// TestCompletePDAG checks the C(N,2) starting edge count.
func TestCompletePDAG(t *testing.T) {
	for n := 1; n <= 7; n++ {
		g, err := core.NewCompletePDAG(core.DefaultNames(n))
		require.NoError(t, err)
		assert.Equal(t, n*(n-1)/2, g.EdgeCount())
		assert.Equal(t, n*(n-1)/2, g.UndirectedCount())
	}
}

func TestPDAG_AddRemove(t *testing.T) {
	g := MustPDAG(t, abcd)
	require.NoError(t, g.AddUndirectedEdge(0, 1))
	assert.ErrorIs(t, g.AddUndirectedEdge(1, 0), core.ErrEdgeExists)
	assert.ErrorIs(t, g.AddUndirectedEdge(2, 2), core.ErrSelfLoop)
	assert.ErrorIs(t, g.AddUndirectedEdge(0, 9), core.ErrNodeOutOfRange)

	require.NoError(t, g.AddArc(1, 2))
	assert.True(t, g.HasArc(1, 2))
	assert.False(t, g.HasArc(2, 1))
	assert.True(t, g.Adjacent(2, 1))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.Equal(t, []int{0}, g.UndirectedNeighbors(1))
	assert.Equal(t, []int{1}, g.Parents(2))
	assert.Equal(t, []int{2}, g.Children(1))
	assert.Equal(t, 2, g.Degree(1))

	require.NoError(t, g.RemoveEdge(2, 1))
	assert.False(t, g.Adjacent(1, 2))
	assert.ErrorIs(t, g.RemoveEdge(1, 2), core.ErrEdgeNotFound)
}

func TestPDAG_AddArcCycle(t *testing.T) {
	g := MustPDAG(t, abcd)
	require.NoError(t, g.AddArc(0, 1))
	require.NoError(t, g.AddArc(1, 2))
	assert.ErrorIs(t, g.AddArc(2, 0), core.ErrCycleDetected)
	assert.False(t, g.Adjacent(0, 2))
	assert.True(t, g.HasDirectedPath(0, 2))
	assert.False(t, g.HasDirectedPath(2, 0))
}

func TestPDAG_OrientEdge(t *testing.T) {
	g := MustPDAG(t, abcd)
	require.NoError(t, g.AddUndirectedEdge(0, 1))
	require.NoError(t, g.AddUndirectedEdge(1, 2))
	require.NoError(t, g.AddUndirectedEdge(0, 2))

	require.NoError(t, g.OrientEdge(0, 1))
	require.NoError(t, g.OrientEdge(0, 1), "re-orienting the same way is a no-op")
	assert.ErrorIs(t, g.OrientEdge(1, 0), core.ErrInvalidOrientation)
	assert.ErrorIs(t, g.OrientEdge(0, 3), core.ErrInvalidOrientation)

	require.NoError(t, g.OrientEdge(1, 2))
	err := g.OrientEdge(2, 0)
	assert.ErrorIs(t, err, core.ErrInvalidOrientation)
	assert.ErrorIs(t, err, core.ErrCycleDetected)
	assert.True(t, g.HasUndirectedEdge(0, 2), "failed orientation leaves the edge untouched")
}

func TestPDAG_CloneSkeletonToDAG(t *testing.T) {
	g := MustPDAG(t, abcd)
	require.NoError(t, g.AddArc(0, 1))
	require.NoError(t, g.AddUndirectedEdge(1, 2))

	_, err := g.ToNamedDAG()
	assert.ErrorIs(t, err, core.ErrInvalidOrientation)

	c := g.Clone()
	require.NoError(t, c.OrientEdge(1, 2))
	assert.True(t, g.HasUndirectedEdge(1, 2), "clone is independent")

	d, err := c.ToNamedDAG()
	require.NoError(t, err)
	assert.Equal(t, []core.Arc{{From: 0, To: 1}, {From: 1, To: 2}}, d.Arcs())

	s := c.Skeleton()
	assert.Equal(t, 2, s.UndirectedCount())
}

func TestPDAG_StringAndDOT(t *testing.T) {
	g := MustPDAG(t, abcd)
	require.NoError(t, g.AddArc(0, 1))
	require.NoError(t, g.AddUndirectedEdge(1, 2))
	assert.Equal(t, "D\nA->B\nB--C\n", g.String())

	dot := g.DOT(core.WithGraphName("skeleton"), core.WithEdgeLabel(func(u, v int) string {
		if u == 1 && v == 2 {
			return "p=0.5"
		}
		return ""
	}))
	assert.Contains(t, dot, `digraph "skeleton" {`)
	assert.Contains(t, dot, `"A" -> "B";`)
	assert.Contains(t, dot, `"B" -> "C" [dir=none, label="p=0.5"];`)
}

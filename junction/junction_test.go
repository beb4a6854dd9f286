package junction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/junction"
)

var fiveNames = []string{"A", "B", "C", "D", "E"}

func chainOfCliques(t *testing.T) *junction.JunctionTree {
	t.Helper()
	jt, err := junction.New(fiveNames,
		[][]int{{2, 1, 0}, {1, 2, 3}, {3, 4}},
		[]junction.CliqueEdge{{A: 1, B: 0}, {A: 1, B: 2}})
	require.NoError(t, err)

	return jt
}

func TestNew(t *testing.T) {
	jt := chainOfCliques(t)
	assert.Equal(t, 5, jt.Size())
	assert.Equal(t, 3, jt.CliqueCount())
	assert.Equal(t, []int{0, 1, 2}, jt.Clique(0))
	assert.Equal(t, []junction.CliqueEdge{{A: 0, B: 1}, {A: 1, B: 2}}, jt.Edges())
	assert.Equal(t, [][]int{{1, 2}, {3}}, jt.Separators())
	assert.Equal(t, []int{0, 2}, jt.Neighbors(1))

	sep, err := jt.Separator(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, sep)
	_, err = jt.Separator(0, 2)
	assert.ErrorIs(t, err, junction.ErrNotAdjacent)
	_, err = jt.Separator(0, 7)
	assert.ErrorIs(t, err, junction.ErrCliqueOutOfRange)

	assert.Equal(t, []junction.Visit{
		{Clique: 0, Parent: -1}, {Clique: 1, Parent: 0}, {Clique: 2, Parent: 1},
	}, jt.Traversal())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		cliques [][]int
		edges   []junction.CliqueEdge
		want    error
	}{
		{"empty clique", nil, [][]int{{0}, {}}, nil, junction.ErrEmptyClique},
		{"uncovered variable", []string{"A", "B", "C"}, [][]int{{0, 2}}, nil, junction.ErrCoverage},
		{"names mismatch", []string{"A"}, [][]int{{0, 1}}, nil, junction.ErrCoverage},
		{"duplicate names", []string{"A", "A"}, [][]int{{0, 1}}, nil, junction.ErrInvalidNames},
		{"edge out of range", nil, [][]int{{0, 1}}, []junction.CliqueEdge{{A: 0, B: 3}}, junction.ErrCliqueOutOfRange},
		{"self loop", nil, [][]int{{0, 1}}, []junction.CliqueEdge{{A: 0, B: 0}}, junction.ErrNotATree},
		{"repeated edge", nil, [][]int{{0, 1}, {1, 2}}, []junction.CliqueEdge{{A: 0, B: 1}, {A: 1, B: 0}}, junction.ErrNotATree},
		{"cycle", nil, [][]int{{0, 1}, {1, 2}, {1, 3}},
			[]junction.CliqueEdge{{A: 0, B: 1}, {A: 1, B: 2}, {A: 0, B: 2}}, junction.ErrNotATree},
		{"running intersection", nil, [][]int{{0, 1}, {1, 2}, {0, 2}},
			[]junction.CliqueEdge{{A: 0, B: 1}, {A: 1, B: 2}}, junction.ErrRunningIntersection},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := junction.New(tc.names, tc.cliques, tc.edges)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFromDAG(t *testing.T) {
	chain, err := core.ParseNamedDAG("A->B->C")
	require.NoError(t, err)
	jt, err := junction.FromDAG(chain)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {1, 2}}, jt.Cliques())
	assert.Equal(t, [][]int{{1}}, jt.Separators())

	diamond, err := core.ParseNamedDAG("A;B;C;D;A->C;B->C;C->D")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {0, 2}, {0, 1, 3}, {2}}, junction.MoralGraph(diamond))
	jt, err = junction.FromDAG(diamond)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2, 3}, {0, 1, 2}}, jt.Cliques())
	assert.Equal(t, [][]int{{2}}, jt.Separators())
}

func TestFromDAG_Forest(t *testing.T) {
	d, err := core.ParseNamedDAG("A->B\nC")
	require.NoError(t, err)
	jt, err := junction.FromDAG(d)
	require.NoError(t, err)
	assert.Equal(t, 2, jt.CliqueCount())
	assert.Empty(t, jt.Edges())
	assert.Len(t, jt.Traversal(), 2)
}

func TestMarginal(t *testing.T) {
	jt := chainOfCliques(t)

	m, err := jt.Marginal([]int{0, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D", "E"}, m.Names())
	assert.Equal(t, [][]int{{0}, {1, 2}}, m.Cliques())
	assert.Empty(t, m.Edges())

	m, err = jt.Marginal([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}}, m.Cliques())

	m, err = jt.Marginal([]int{4, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"E", "D", "C"}, m.Names())
	assert.Equal(t, [][]int{{1, 2}, {0, 1}}, m.Cliques())
	assert.Equal(t, [][]int{{1}}, m.Separators())

	_, err = jt.Marginal([]int{0, 0})
	assert.ErrorIs(t, err, junction.ErrInvalidIndices)
	_, err = jt.Marginal(nil)
	assert.ErrorIs(t, err, junction.ErrInvalidIndices)
}

func TestStringAndDOT(t *testing.T) {
	jt := chainOfCliques(t)
	s := jt.String()
	assert.Contains(t, s, "[A,B,C,D,E]")
	assert.Contains(t, s, "0 : [0(A),1(B),2(C)]")
	assert.Contains(t, s, "1-2 : [3(D)]")

	dot := jt.DOT()
	assert.Contains(t, dot, `c0 [label="{A,B,C}"];`)
	assert.Contains(t, dot, `c1 -- c2 [label="D"];`)
}

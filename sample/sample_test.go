package sample_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/sample"
)

func mustSample(t *testing.T) *sample.Sample {
	t.Helper()
	s, err := sample.New([]string{"A", "B", "C"}, [][]float64{
		{1, 10, 0.5},
		{3, 30, 0.1},
		{2, 20, 0.3},
		{4, 40, 0.2},
	})
	require.NoError(t, err)

	return s
}

func TestNew(t *testing.T) {
	s := mustSample(t)
	assert.Equal(t, 4, s.Size())
	assert.Equal(t, 3, s.Dim())
	assert.Equal(t, []float64{10, 30, 20, 40}, s.Column(1))
	assert.Equal(t, []float64{2, 20, 0.3}, s.Row(2))
	j, ok := s.Index("C")
	assert.True(t, ok)
	assert.Equal(t, 2, j)

	_, err := sample.New(nil, nil)
	assert.ErrorIs(t, err, sample.ErrEmpty)
	_, err = sample.New(nil, [][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, sample.ErrDimensionMismatch)
	_, err = sample.New([]string{"A"}, [][]float64{{1, 2}})
	assert.ErrorIs(t, err, sample.ErrDimensionMismatch)

	d, err := sample.New(nil, [][]float64{{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X0", "X1"}, d.Names())
}

func TestFromColumns(t *testing.T) {
	s, err := sample.FromColumns([]string{"A", "B"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, s.Row(1))
	_, err = sample.FromColumns(nil, [][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, sample.ErrDimensionMismatch)
}

func TestMarginal(t *testing.T) {
	s := mustSample(t)
	m, err := s.Marginal([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, m.Names())
	assert.Equal(t, []float64{0.5, 1}, m.Row(0))

	_, err = s.Marginal([]int{3})
	assert.ErrorIs(t, err, sample.ErrIndexOutOfRange)

	byName, err := s.MarginalByName([]string{"B"})
	require.NoError(t, err)
	assert.Equal(t, s.Column(1), byName.Column(0))
	_, err = s.MarginalByName([]string{"Z"})
	assert.ErrorIs(t, err, sample.ErrUnknownName)
}

func TestPseudoObservations(t *testing.T) {
	assert.Equal(t, []int{1, 0, 2, 3}, sample.Ranks([]float64{5, 1, 7, 9}))
	assert.Equal(t, []int{0, 1, 2}, sample.Ranks([]float64{1, 1, 1}), "ties keep input order")

	u := sample.PseudoObservations([]float64{5, 1, 7})
	assert.InDeltaSlice(t, []float64{0.5, 0.25, 0.75}, u, 1e-12)

	s := mustSample(t).PseudoObservations()
	assert.InDeltaSlice(t, []float64{0.2, 0.6, 0.4, 0.8}, s.Column(0), 1e-12)
	assert.InDeltaSlice(t, []float64{0.8, 0.2, 0.6, 0.4}, s.Column(2), 1e-12)
}

func TestSplit(t *testing.T) {
	s := mustSample(t)
	head, tail, err := s.Split(0.5)
	require.NoError(t, err)
	assert.Equal(t, 2, head.Size())
	assert.Equal(t, 2, tail.Size())
	assert.Equal(t, []float64{2, 20, 0.3}, tail.Row(0))

	head, tail, err = s.Split(1.5)
	require.NoError(t, err)
	assert.Equal(t, 3, head.Size())
	assert.Equal(t, 1, tail.Size())
}

func TestMeanCorrelationDescribe(t *testing.T) {
	s := mustSample(t)
	assert.InDeltaSlice(t, []float64{2.5, 25, 0.275}, s.Mean(), 1e-12)

	c := s.Correlation()
	assert.InDelta(t, 1.0, c.At(0, 1), 1e-12)

	sums, err := s.Describe()
	require.NoError(t, err)
	require.Len(t, sums, 3)
	assert.Equal(t, "B", sums[1].Name)
	assert.InDelta(t, 10.0, sums[1].Min, 1e-12)
	assert.InDelta(t, 40.0, sums[1].Max, 1e-12)
	assert.InDelta(t, 25.0, sums[1].Median, 1e-12)
}

func TestCSVRoundTrip(t *testing.T) {
	in := "A, B\n1,2\n3.5,-4\n"
	s, err := sample.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, s.Names())
	assert.Equal(t, []float64{3.5, -4}, s.Row(1))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.Equal(t, "A,B\n1,2\n3.5,-4\n", buf.String())

	_, err = sample.ReadCSV(strings.NewReader("A,B\n1,x\n"))
	assert.Error(t, err)
	_, err = sample.ReadCSV(strings.NewReader("A,B\n"))
	assert.ErrorIs(t, err, sample.ErrEmpty)
}

package sample

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmpty indicates a sample without rows or columns.
	ErrEmpty = errors.New("sample: empty sample")

	// ErrDimensionMismatch indicates rows or names of inconsistent length.
	ErrDimensionMismatch = errors.New("sample: dimension mismatch")

	// ErrIndexOutOfRange indicates a column or row index outside the sample.
	ErrIndexOutOfRange = errors.New("sample: index out of range")

	// ErrUnknownName indicates a column name that is not in the sample.
	ErrUnknownName = errors.New("sample: unknown column name")
)

// Sample is an N×d table of observations with one name per column.
type Sample struct {
	names []string
	data  *mat.Dense
}

// New builds a sample from row-major data. A nil names slice yields X0..X{d-1}.
func New(names []string, rows [][]float64) (*Sample, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}
	d := len(rows[0])
	flat := make([]float64, 0, len(rows)*d)
	for i, r := range rows {
		if len(r) != d {
			return nil, fmt.Errorf("sample: row %d has %d values, want %d: %w", i, len(r), d, ErrDimensionMismatch)
		}
		flat = append(flat, r...)
	}

	return FromDense(names, mat.NewDense(len(rows), d, flat))
}

// FromDense wraps a copy of m.
func FromDense(names []string, m *mat.Dense) (*Sample, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrEmpty
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmpty
	}
	if names == nil {
		names = defaultNames(c)
	}
	if len(names) != c {
		return nil, fmt.Errorf("sample: %d names for %d columns: %w", len(names), c, ErrDimensionMismatch)
	}

	return &Sample{names: append([]string(nil), names...), data: mat.DenseCopyOf(m)}, nil
}

// FromColumns builds a sample from column-major data.
func FromColumns(names []string, cols [][]float64) (*Sample, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, ErrEmpty
	}
	n := len(cols[0])
	m := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		if len(col) != n {
			return nil, fmt.Errorf("sample: column %d has %d values, want %d: %w", j, len(col), n, ErrDimensionMismatch)
		}
		m.SetCol(j, col)
	}

	return FromDense(names, m)
}

func defaultNames(d int) []string {
	names := make([]string, d)
	for j := range names {
		names[j] = fmt.Sprintf("X%d", j)
	}

	return names
}

// Size returns the number of observations N.
func (s *Sample) Size() int {
	r, _ := s.data.Dims()
	return r
}

// Dim returns the number of columns d.
func (s *Sample) Dim() int {
	_, c := s.data.Dims()
	return c
}

// Names returns a copy of the column names.
func (s *Sample) Names() []string { return append([]string(nil), s.names...) }

// Name returns the name of column j.
func (s *Sample) Name(j int) string { return s.names[j] }

// Index returns the column of the given name.
func (s *Sample) Index(name string) (int, bool) {
	for j, n := range s.names {
		if n == name {
			return j, true
		}
	}

	return -1, false
}

// At returns observation i of column j.
func (s *Sample) At(i, j int) float64 { return s.data.At(i, j) }

// Row returns a copy of observation i.
func (s *Sample) Row(i int) []float64 { return mat.Row(nil, i, s.data) }

// Rows returns all observations as row slices.
func (s *Sample) Rows() [][]float64 {
	out := make([][]float64, s.Size())
	for i := range out {
		out[i] = s.Row(i)
	}

	return out
}

// Column returns a copy of column j.
func (s *Sample) Column(j int) []float64 { return mat.Col(nil, j, s.data) }

// Dense returns a copy of the underlying matrix.
func (s *Sample) Dense() *mat.Dense { return mat.DenseCopyOf(s.data) }

// Marginal restricts the sample to the given columns, in the given order.
func (s *Sample) Marginal(indices []int) (*Sample, error) {
	if len(indices) == 0 {
		return nil, ErrEmpty
	}
	n, d := s.Size(), s.Dim()
	m := mat.NewDense(n, len(indices), nil)
	names := make([]string, len(indices))
	for k, j := range indices {
		if j < 0 || j >= d {
			return nil, fmt.Errorf("sample: column %d with d=%d: %w", j, d, ErrIndexOutOfRange)
		}
		m.SetCol(k, mat.Col(nil, j, s.data))
		names[k] = s.names[j]
	}

	return &Sample{names: names, data: m}, nil
}

// MarginalByName restricts the sample to the named columns.
func (s *Sample) MarginalByName(names []string) (*Sample, error) {
	indices := make([]int, len(names))
	for k, name := range names {
		j, ok := s.Index(name)
		if !ok {
			return nil, fmt.Errorf("sample: %q: %w", name, ErrUnknownName)
		}
		indices[k] = j
	}

	return s.Marginal(indices)
}

// Split returns the first ⌊ratio·N⌋ rows and the remaining rows. Both parts
// keep at least one row; ratio is clamped into [0,1].
func (s *Sample) Split(ratio float64) (*Sample, *Sample, error) {
	n := s.Size()
	if n < 2 {
		return nil, nil, fmt.Errorf("sample: cannot split %d rows: %w", n, ErrEmpty)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	cut := int(ratio * float64(n))
	if cut < 1 {
		cut = 1
	}
	if cut > n-1 {
		cut = n - 1
	}
	d := s.Dim()
	head := mat.DenseCopyOf(s.data.Slice(0, cut, 0, d))
	tail := mat.DenseCopyOf(s.data.Slice(cut, n, 0, d))

	return &Sample{names: s.Names(), data: head}, &Sample{names: s.Names(), data: tail}, nil
}

// Mean returns the column means.
func (s *Sample) Mean() []float64 {
	out := make([]float64, s.Dim())
	for j := range out {
		out[j] = stat.Mean(s.Column(j), nil)
	}

	return out
}

// Correlation returns the Pearson correlation matrix of the columns.
func (s *Sample) Correlation() *mat.SymDense {
	d := s.Dim()
	c := mat.NewSymDense(d, nil)
	stat.CorrelationMatrix(c, s.data, nil)

	return c
}

// Ranks returns the 0-based ranks of x; ties are ranked in input order.
func Ranks(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	ranks := make([]int, len(x))
	for r, i := range idx {
		ranks[i] = r
	}

	return ranks
}

// PseudoObservations maps x to (rank+1)/(N+1).
func PseudoObservations(x []float64) []float64 {
	ranks := Ranks(x)
	n := float64(len(x) + 1)
	u := make([]float64, len(x))
	for i, r := range ranks {
		u[i] = float64(r+1) / n
	}

	return u
}

// PseudoObservations returns the column-wise rank transform of s.
func (s *Sample) PseudoObservations() *Sample {
	n, d := s.Size(), s.Dim()
	m := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		m.SetCol(j, PseudoObservations(s.Column(j)))
	}

	return &Sample{names: s.Names(), data: m}
}

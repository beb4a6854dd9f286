package miic

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/copulanet/oracle"
)

var (
	// ErrNilSample indicates a missing input sample.
	ErrNilSample = errors.New("miic: sample is nil")

	// ErrDimensionMismatch indicates an information estimator built on a
	// different number of variables than the sample.
	ErrDimensionMismatch = errors.New("miic: estimator and sample dimensions differ")

	// ErrInvalidOption indicates a negative size or worker count.
	ErrInvalidOption = errors.New("miic: invalid option")
)

// DefaultMaxConditioningSetSize bounds |U| per edge.
const DefaultMaxConditioningSetSize = 5

// Options configures a Learner.
type Options struct {
	CMode oracle.CMode
	KMode oracle.KMode
	// Alpha is the correction term of the Naive mode.
	Alpha                  float64
	MaxConditioningSetSize int
	// Information overrides the estimator built from CMode, KMode and Alpha.
	Information *oracle.CorrectedMutualInformation
	// Workers bounds the concurrent pairwise scores of the first pass.
	Workers int
	Logger  *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Bernstein copulas with the Naive correction at
// α = oracle.DefaultAlpha.
func DefaultOptions() Options {
	return Options{
		CMode:                  oracle.Bernstein,
		KMode:                  oracle.Naive,
		Alpha:                  oracle.DefaultAlpha,
		MaxConditioningSetSize: DefaultMaxConditioningSetSize,
		Workers:                1,
	}
}

// WithCMode selects the copula family of the estimator.
func WithCMode(m oracle.CMode) Option { return func(o *Options) { o.CMode = m } }

// WithKMode selects the correction.
func WithKMode(m oracle.KMode) Option { return func(o *Options) { o.KMode = m } }

// WithAlpha sets the correction term.
func WithAlpha(alpha float64) Option { return func(o *Options) { o.Alpha = alpha } }

// WithMaxConditioningSetSize bounds the conditioning set of an edge.
func WithMaxConditioningSetSize(n int) Option {
	return func(o *Options) { o.MaxConditioningSetSize = n }
}

// WithInformation supplies a prepared estimator.
func WithInformation(c *oracle.CorrectedMutualInformation) Option {
	return func(o *Options) { o.Information = c }
}

// WithWorkers sets the concurrency of the pairwise pass.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// Score is the orientation score of an unshielded triple X–Z–Y.
type Score struct {
	X, Z, Y int
	// I3 is the corrected 3-point information given sepset(X,Y)\{Z}.
	I3 float64
}

type pair struct{ U, V int }

func mkPair(u, v int) pair {
	if u > v {
		u, v = v, u
	}

	return pair{U: u, V: v}
}

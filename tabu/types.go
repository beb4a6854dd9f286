package tabu

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/oracle"
)

var (
	// ErrNilSample indicates a missing input sample.
	ErrNilSample = errors.New("tabu: sample is nil")

	// ErrDimensionMismatch indicates an initial DAG whose nodes differ from
	// the sample columns.
	ErrDimensionMismatch = errors.New("tabu: initial DAG does not match the sample")

	// ErrInvalidOption indicates a negative bound or an empty run count.
	ErrInvalidOption = errors.New("tabu: invalid option")
)

// Defaults.
const (
	DefaultMaxParents    = 4
	DefaultRestarts      = 1
	DefaultTabuListSize  = 2
	DefaultMaxIterations = 1000
	DefaultSeed          = 1
)

// Options configures a Learner.
type Options struct {
	CMode oracle.CMode
	KMode oracle.KMode
	// MaxParents bounds every in-degree reached by a move.
	MaxParents int
	// Restarts is the number of runs, the first from InitialDAG.
	Restarts     int
	TabuListSize int
	// MaxIterations bounds the moves of one run; 0 means unbounded.
	MaxIterations int
	InitialDAG    *core.NamedDAG
	Seed          uint64
	Logger        *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Gaussian copulas without correction, four parents,
// one run and a tabu list of two moves.
func DefaultOptions() Options {
	return Options{
		CMode:         oracle.Gaussian,
		KMode:         oracle.NoCorr,
		MaxParents:    DefaultMaxParents,
		Restarts:      DefaultRestarts,
		TabuListSize:  DefaultTabuListSize,
		MaxIterations: DefaultMaxIterations,
		Seed:          DefaultSeed,
	}
}

// WithCMode selects the copula family of the score.
func WithCMode(m oracle.CMode) Option { return func(o *Options) { o.CMode = m } }

// WithKMode selects the correction of the score.
func WithKMode(m oracle.KMode) Option { return func(o *Options) { o.KMode = m } }

// WithMaxParents bounds in-degrees.
func WithMaxParents(k int) Option { return func(o *Options) { o.MaxParents = k } }

// WithRestarts sets the number of runs.
func WithRestarts(n int) Option { return func(o *Options) { o.Restarts = n } }

// WithTabuListSize sets the recency window.
func WithTabuListSize(n int) Option { return func(o *Options) { o.TabuListSize = n } }

// WithMaxIterations bounds the moves of one run.
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// WithInitialDAG sets the start of the first run. Its node names must be
// the sample's, in any order.
func WithInitialDAG(d *core.NamedDAG) Option { return func(o *Options) { o.InitialDAG = d } }

// WithSeed seeds the restarts.
func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

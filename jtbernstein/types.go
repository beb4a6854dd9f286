package jtbernstein

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/copulanet/junction"
)

var (
	// ErrNilSample indicates a missing sample or junction tree.
	ErrNilSample = errors.New("jtbernstein: sample or junction tree is nil")

	// ErrDimensionMismatch indicates a tree whose variable count differs from
	// the sample dimension.
	ErrDimensionMismatch = errors.New("jtbernstein: dimension mismatch")

	// ErrInsufficientData indicates fewer rows than the bin number.
	ErrInsufficientData = errors.New("jtbernstein: insufficient data")

	// ErrInvalidOption indicates an option outside its domain.
	ErrInvalidOption = errors.New("jtbernstein: invalid option")

	// ErrDegenerateSeparator indicates a separator copula with zero density
	// at the conditioning point.
	ErrDegenerateSeparator = errors.New("jtbernstein: degenerate separator")
)

// Defaults.
const (
	DefaultAlpha                  = 0.1
	DefaultMaxConditioningSetSize = 5
	DefaultWorkers                = 1
)

// Options configures New and Factory.
type Options struct {
	// BinNumber is the Bernstein order K; 0 selects
	// copula.BinNumber(N, widest clique).
	BinNumber int
	// MaxTrials is the number of restarts of a draw hitting a degenerate
	// separator; 0 returns ErrDegenerateSeparator at once.
	MaxTrials int
	// JunctionTree is the tree used by Factory; nil learns one with PC.
	JunctionTree *junction.JunctionTree
	// Alpha and MaxConditioningSetSize configure the PC learner.
	Alpha                  float64
	MaxConditioningSetSize int
	// Workers bounds the clique and separator fits running at once.
	Workers int
	Logger  *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the bin number rule, no rejection retries, α = 0.1
// and conditioning sets of at most five variables.
func DefaultOptions() Options {
	return Options{
		Alpha:                  DefaultAlpha,
		MaxConditioningSetSize: DefaultMaxConditioningSetSize,
		Workers:                DefaultWorkers,
	}
}

// WithBinNumber fixes K.
func WithBinNumber(k int) Option { return func(o *Options) { o.BinNumber = k } }

// WithRejection restarts degenerate draws up to maxTrials times.
func WithRejection(maxTrials int) Option { return func(o *Options) { o.MaxTrials = maxTrials } }

// WithJunctionTree fixes the tree used by Factory.
func WithJunctionTree(jt *junction.JunctionTree) Option {
	return func(o *Options) { o.JunctionTree = jt }
}

// WithAlpha sets the PC significance level.
func WithAlpha(alpha float64) Option { return func(o *Options) { o.Alpha = alpha } }

// WithMaxConditioningSetSize bounds the PC conditioning sets.
func WithMaxConditioningSetSize(n int) Option {
	return func(o *Options) { o.MaxConditioningSetSize = n }
}

// WithWorkers sets the fit concurrency.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func (o Options) validate(method string) error {
	switch {
	case o.BinNumber < 0:
		return fmt.Errorf("%s: bin number %d: %w", method, o.BinNumber, ErrInvalidOption)
	case o.MaxTrials < 0:
		return fmt.Errorf("%s: max trials %d: %w", method, o.MaxTrials, ErrInvalidOption)
	case !(o.Alpha > 0 && o.Alpha < 1):
		return fmt.Errorf("%s: alpha %g: %w", method, o.Alpha, ErrInvalidOption)
	case o.MaxConditioningSetSize < 0:
		return fmt.Errorf("%s: max conditioning set %d: %w", method, o.MaxConditioningSetSize, ErrInvalidOption)
	case o.Workers < 1:
		return fmt.Errorf("%s: workers %d: %w", method, o.Workers, ErrInvalidOption)
	}

	return nil
}

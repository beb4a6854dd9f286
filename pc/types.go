package pc

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/copulanet/oracle"
)

var (
	// ErrNilSample indicates a missing input sample.
	ErrNilSample = errors.New("pc: sample is nil")

	// ErrDimensionMismatch indicates a tester built on a different number
	// of variables than the sample.
	ErrDimensionMismatch = errors.New("pc: tester and sample dimensions differ")

	// ErrInvalidOption indicates a negative size or a significance level
	// outside (0,1).
	ErrInvalidOption = errors.New("pc: invalid option")

	// ErrUnknownEdge indicates a query on a pair that was never tested.
	ErrUnknownEdge = errors.New("pc: pair was never tested")
)

// Defaults.
const (
	DefaultAlpha                  = 0.05
	DefaultMaxConditioningSetSize = 5
	DefaultWorkers                = 1
)

// Options configures a Learner.
type Options struct {
	// Alpha is the significance level of the default tester.
	Alpha float64
	// MaxConditioningSetSize is the largest order ℓ tested.
	MaxConditioningSetSize int
	// Tester overrides the default CMITest on a Gaussian, uncorrected
	// information estimator.
	Tester oracle.Tester
	// OptimalPolicy scans every subset instead of stopping at the first
	// independent one.
	OptimalPolicy bool
	// Workers bounds the number of concurrent edge tests per order.
	Workers int
	Logger  *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns α = 0.05, ℓ ≤ 5, first-found policy, one worker.
func DefaultOptions() Options {
	return Options{
		Alpha:                  DefaultAlpha,
		MaxConditioningSetSize: DefaultMaxConditioningSetSize,
		Workers:                DefaultWorkers,
	}
}

// WithAlpha sets the significance level of the default tester.
func WithAlpha(alpha float64) Option { return func(o *Options) { o.Alpha = alpha } }

// WithMaxConditioningSetSize bounds the order ℓ.
func WithMaxConditioningSetSize(n int) Option {
	return func(o *Options) { o.MaxConditioningSetSize = n }
}

// WithTester replaces the default tester.
func WithTester(t oracle.Tester) Option { return func(o *Options) { o.Tester = t } }

// WithOptimalPolicy keeps the separating set with the largest p-value.
func WithOptimalPolicy() Option { return func(o *Options) { o.OptimalPolicy = true } }

// WithWorkers sets the number of concurrent tests per order.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// pair is an unordered node pair with U < V.
type pair struct{ U, V int }

func mkPair(u, v int) pair {
	if u > v {
		u, v = v, u
	}

	return pair{U: u, V: v}
}

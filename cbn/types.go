package cbn

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/dist"
)

var (
	// ErrNilSample indicates a missing input sample.
	ErrNilSample = errors.New("cbn: sample is nil")

	// ErrDimensionMismatch indicates a DAG, point or local model whose size
	// differs from the data or the network.
	ErrDimensionMismatch = errors.New("cbn: dimension mismatch")

	// ErrInvalidOption indicates a level or ratio outside (0,1) or an empty
	// factory list.
	ErrInvalidOption = errors.New("cbn: invalid option")

	// ErrMarginalFit marks NodeReport.MarginalErr for a node whose marginal
	// no factory could fit.
	ErrMarginalFit = errors.New("cbn: marginal fit failed")
)

// Defaults.
const (
	DefaultAlpha                  = 0.1
	DefaultMaxParents             = 4
	DefaultMaxConditioningSetSize = 5
	DefaultLearningRatio          = 0.8
	DefaultWorkers                = 1
)

// Fallback reasons reported in NodeReport.Fallback.
const (
	FallbackNone           = ""
	FallbackMaxParents     = "max-parents"
	FallbackNotSignificant = "not-significant"
	FallbackFitFailed      = "fit-failed"
)

// Options configures a Factory.
type Options struct {
	// DAG is the structure to fit; nil learns one with package pc.
	DAG *core.NamedDAG
	// MarginalFactories are the candidate marginal families.
	MarginalFactories []dist.Factory
	// CopulaFactories are the candidate local copula families.
	CopulaFactories []copula.Factory
	// Alpha is the significance level of the node/parents dependence test,
	// and of the PC tests when the DAG is learned.
	Alpha float64
	// MaxParents bounds the parent sets given a non-trivial copula.
	MaxParents             int
	MaxConditioningSetSize int
	// LearningRatio is the share of rows used to fit candidates when more
	// than one family competes.
	LearningRatio float64
	// WorkInCopulaSpace replaces the data by pseudo-observations and every
	// marginal by Uniform(0,1).
	WorkInCopulaSpace bool
	Workers           int
	Logger            *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns kernel-smoothed marginals, Bernstein copulas,
// α = 0.1, four parents and an 80/20 split.
func DefaultOptions() Options {
	return Options{
		MarginalFactories:      []dist.Factory{dist.KernelSmoothingFactory{}},
		CopulaFactories:        []copula.Factory{copula.BernsteinFactory{}},
		Alpha:                  DefaultAlpha,
		MaxParents:             DefaultMaxParents,
		MaxConditioningSetSize: DefaultMaxConditioningSetSize,
		LearningRatio:          DefaultLearningRatio,
		Workers:                DefaultWorkers,
	}
}

// WithDAG fixes the structure.
func WithDAG(d *core.NamedDAG) Option { return func(o *Options) { o.DAG = d } }

// WithMarginalFactories sets the candidate marginal families.
func WithMarginalFactories(fs ...dist.Factory) Option {
	return func(o *Options) { o.MarginalFactories = fs }
}

// WithCopulaFactories sets the candidate copula families.
func WithCopulaFactories(fs ...copula.Factory) Option {
	return func(o *Options) { o.CopulaFactories = fs }
}

// WithAlpha sets the significance level.
func WithAlpha(alpha float64) Option { return func(o *Options) { o.Alpha = alpha } }

// WithMaxParents bounds parent sets.
func WithMaxParents(k int) Option { return func(o *Options) { o.MaxParents = k } }

// WithMaxConditioningSetSize bounds the PC search when the DAG is learned.
func WithMaxConditioningSetSize(n int) Option {
	return func(o *Options) { o.MaxConditioningSetSize = n }
}

// WithLearningRatio sets the learning share of the model selection split.
func WithLearningRatio(r float64) Option { return func(o *Options) { o.LearningRatio = r } }

// WithWorkInCopulaSpace fits on pseudo-observations with uniform marginals.
func WithWorkInCopulaSpace() Option { return func(o *Options) { o.WorkInCopulaSpace = true } }

// WithWorkers sets the number of nodes fitted concurrently.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// NodeReport records how one node was fitted.
type NodeReport struct {
	Node     int
	Name     string
	Parents  []int
	Marginal string
	Copula   string
	// PValue of the node/parents dependence test; 0 without parents.
	PValue float64
	// Score is the validation log-likelihood of the chosen copula, when a
	// selection took place.
	Score    float64
	Fallback string
	// Err holds the last fit error behind FallbackFitFailed.
	Err error
	// MarginalErr wraps ErrMarginalFit when every marginal family failed;
	// Marginal is then the Uniform fallback over the observed range.
	MarginalErr error
}

package oracle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sentinel errors.
var (
	// ErrNilSample indicates a missing input sample.
	ErrNilSample = errors.New("oracle: sample is nil")

	// ErrIndexOutOfRange indicates a variable index outside [0, Dim()).
	ErrIndexOutOfRange = errors.New("oracle: variable index out of range")

	// ErrOverlappingSets indicates a query whose variables are not distinct.
	ErrOverlappingSets = errors.New("oracle: query variables overlap")

	// ErrInvalidAlpha indicates a significance level outside (0,1) or a
	// negative correction.
	ErrInvalidAlpha = errors.New("oracle: invalid alpha")

	// ErrInsufficientSample marks a test whose conditioning set is too
	// large for the sample. It is reported through Result.Reason; Test
	// never returns it.
	ErrInsufficientSample = errors.New("oracle: conditioning set too large for sample")
)

// CMode selects the copula family used to estimate entropies.
type CMode int

const (
	// Bernstein uses the empirical Bernstein copula (nonparametric).
	Bernstein CMode = iota
	// Gaussian uses the normal copula (parametric, closed-form entropy).
	Gaussian
)

func (m CMode) String() string {
	switch m {
	case Bernstein:
		return "Bernstein"
	case Gaussian:
		return "Gaussian"
	default:
		return fmt.Sprintf("CMode(%d)", int(m))
	}
}

// ParseCMode maps "Bernstein"/"Gaussian" (any case) to a CMode.
func ParseCMode(s string) (CMode, error) {
	switch strings.ToLower(s) {
	case "bernstein":
		return Bernstein, nil
	case "gaussian", "normal":
		return Gaussian, nil
	}

	return 0, fmt.Errorf("oracle: unknown copula mode %q", s)
}

// KMode selects the bias correction applied to information values.
type KMode int

const (
	// Naive subtracts a fixed α from 2-point information.
	Naive KMode = iota
	// NoCorr applies no correction.
	NoCorr
)

func (m KMode) String() string {
	switch m {
	case Naive:
		return "Naive"
	case NoCorr:
		return "NoCorr"
	default:
		return fmt.Sprintf("KMode(%d)", int(m))
	}
}

// ParseKMode maps "Naive"/"NoCorr" (any case) to a KMode.
func ParseKMode(s string) (KMode, error) {
	switch strings.ToLower(s) {
	case "naive":
		return Naive, nil
	case "nocorr", "none":
		return NoCorr, nil
	}

	return 0, fmt.Errorf("oracle: unknown correction mode %q", s)
}

// Defaults.
const (
	DefaultAlpha     = 0.01
	DefaultCacheSize = 1 << 16
)

// Options configures a CorrectedMutualInformation.
type Options struct {
	CMode     CMode
	KMode     KMode
	Alpha     float64
	CacheSize int
	Logger    *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Bernstein/Naive with α = 0.01.
func DefaultOptions() Options {
	return Options{
		CMode:     Bernstein,
		KMode:     Naive,
		Alpha:     DefaultAlpha,
		CacheSize: DefaultCacheSize,
	}
}

// WithCMode selects the copula family.
func WithCMode(m CMode) Option { return func(o *Options) { o.CMode = m } }

// WithKMode selects the correction.
func WithKMode(m KMode) Option { return func(o *Options) { o.KMode = m } }

// WithAlpha sets the Naive correction α.
func WithAlpha(alpha float64) Option { return func(o *Options) { o.Alpha = alpha } }

// WithCacheSize bounds the number of memoized entropies. Non-positive
// values keep the default.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.CacheSize = n
		}
	}
}

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return l
}

package oracle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const methodTest = "Test"

// Result is the outcome of one conditional independence test.
type Result struct {
	// Statistic is the test statistic (larger means more dependent).
	Statistic float64
	// PValue is the probability of a statistic at least this large under
	// independence.
	PValue float64
	// Independent reports PValue >= α, or a declined test.
	Independent bool
	// Insufficient reports that the conditioning set was too large for the
	// sample and the test declined to reject independence.
	Insufficient bool
	// Reason is ErrInsufficientSample when Insufficient, nil otherwise.
	Reason error
}

// Tester decides conditional independence of X and Y given Z.
type Tester interface {
	// Test returns an error only for invalid indices.
	Test(x, y int, z []int) (Result, error)
	Alpha() float64
	Dim() int
	Names() []string
	ClearCache()
	ClearCacheLevel(level int)
}

// insufficient reports whether |z| leaves fewer than one degree of freedom.
func insufficient(n, condSize int) bool { return n-condSize-3 < 1 }

func declined() Result {
	return Result{PValue: 1, Independent: true, Insufficient: true, Reason: ErrInsufficientSample}
}

// CMITest rejects independence when 2N·I'(X;Y|Z) is large for χ²₁, with I'
// the corrected information clamped at zero.
type CMITest struct {
	info  *CorrectedMutualInformation
	alpha float64
}

var _ Tester = (*CMITest)(nil)

// NewCMITest wraps an information estimator with significance level alpha.
func NewCMITest(info *CorrectedMutualInformation, alpha float64) (*CMITest, error) {
	if info == nil {
		return nil, ErrNilSample
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("oracle: significance α=%g: %w", alpha, ErrInvalidAlpha)
	}

	return &CMITest{info: info, alpha: alpha}, nil
}

// Information returns the wrapped estimator.
func (t *CMITest) Information() *CorrectedMutualInformation { return t.info }

// Alpha returns the significance level.
func (t *CMITest) Alpha() float64 { return t.alpha }

// Dim returns the number of variables.
func (t *CMITest) Dim() int { return t.info.Dim() }

// Names returns the variable names.
func (t *CMITest) Names() []string { return t.info.Names() }

// ClearCache drops memoized entropies.
func (t *CMITest) ClearCache() { t.info.ClearCache() }

// ClearCacheLevel drops memoized entropies of sets of size level.
func (t *CMITest) ClearCacheLevel(level int) { t.info.ClearCacheLevel(level) }

// Test computes the statistic and its χ²₁ upper-tail p-value.
func (t *CMITest) Test(x, y int, z []int) (Result, error) {
	if err := checkVars(methodTest, t.Dim(), append([]int{x, y}, z...)); err != nil {
		return Result{}, err
	}
	n := t.info.Size()
	if insufficient(n, len(z)) {
		return declined(), nil
	}
	i, err := t.info.CorrectedInformation(x, y, z)
	if err != nil {
		return Result{}, err
	}
	stat := 2 * float64(n) * math.Max(i, 0)
	p := distuv.ChiSquared{K: 1}.Survival(stat)

	return Result{Statistic: stat, PValue: p, Independent: p >= t.alpha}, nil
}

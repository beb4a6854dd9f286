package cbn

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/dist"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/pc"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodNewFactory = "NewFactory"
	methodBuild      = "Build"
)

// Factory fits Networks. It holds no per-sample state and may be reused.
type Factory struct {
	opts   Options
	logger *slog.Logger
}

// NewFactory validates the options.
func NewFactory(opts ...Option) (*Factory, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case !(o.Alpha > 0 && o.Alpha < 1):
		return nil, fmt.Errorf("%s: alpha %g: %w", methodNewFactory, o.Alpha, ErrInvalidOption)
	case !(o.LearningRatio > 0 && o.LearningRatio < 1):
		return nil, fmt.Errorf("%s: learning ratio %g: %w", methodNewFactory, o.LearningRatio, ErrInvalidOption)
	case len(o.CopulaFactories) == 0:
		return nil, fmt.Errorf("%s: no copula factory: %w", methodNewFactory, ErrInvalidOption)
	case len(o.MarginalFactories) == 0 && !o.WorkInCopulaSpace:
		return nil, fmt.Errorf("%s: no marginal factory: %w", methodNewFactory, ErrInvalidOption)
	case o.MaxParents < 0 || o.MaxConditioningSetSize < 0 || o.Workers < 1:
		return nil, fmt.Errorf("%s: max parents %d, max cond set %d, workers %d: %w",
			methodNewFactory, o.MaxParents, o.MaxConditioningSetSize, o.Workers, ErrInvalidOption)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Factory{opts: o, logger: logger.With("factory", "cbn")}, nil
}

// Build fits a network on s.
func (f *Factory) Build(s *sample.Sample) (*Network, error) {
	if s == nil {
		return nil, ErrNilSample
	}
	start := time.Now()

	// 1) Structure.
	dag, err := f.structure(s)
	if err != nil {
		return nil, err
	}

	// 2) Working data and the dependence tester.
	data := s
	if f.opts.WorkInCopulaSpace {
		data = s.PseudoObservations()
	}
	info, err := oracle.NewCorrectedMutualInformation(data,
		oracle.WithCMode(oracle.Gaussian), oracle.WithKMode(oracle.NoCorr), oracle.WithLogger(f.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}

	// 3) Local models, one goroutine per node.
	n := dag.Order()
	marginals := make([]dist.Distribution, n)
	copulas := make([]copula.Copula, n)
	reports := make([]NodeReport, n)
	var eg errgroup.Group
	eg.SetLimit(f.opts.Workers)
	for v := 0; v < n; v++ {
		eg.Go(func() error {
			m, c, r, err := f.fitNode(data, info, dag, v)
			marginals[v], copulas[v], reports[v] = m, c, r
			return err
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}

	net, err := New(dag, marginals, copulas)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}
	net.reports = reports
	fallbacks := 0
	for _, r := range reports {
		if r.Fallback != FallbackNone {
			fallbacks++
		}
	}
	f.logger.Info("network fitted", "nodes", n, "arcs", dag.NumArcs(), "fallbacks", fallbacks, "elapsed", time.Since(start))

	return net, nil
}

// structure returns the configured DAG aligned on the sample columns, or
// learns one.
func (f *Factory) structure(s *sample.Sample) (*core.NamedDAG, error) {
	if f.opts.DAG == nil {
		l, err := pc.New(s,
			pc.WithAlpha(f.opts.Alpha),
			pc.WithMaxConditioningSetSize(f.opts.MaxConditioningSetSize),
			pc.WithWorkers(f.opts.Workers),
			pc.WithLogger(f.logger))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodBuild, err)
		}
		d, err := l.LearnDAG()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodBuild, err)
		}
		f.logger.Debug("structure learned", "dag", d.Prototype())

		return d, nil
	}

	d := f.opts.DAG
	if d.Order() != s.Dim() {
		return nil, fmt.Errorf("%s: DAG has %d nodes, sample %d columns: %w", methodBuild, d.Order(), s.Dim(), ErrDimensionMismatch)
	}
	r, err := d.Reindex(s.Names())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", methodBuild, ErrDimensionMismatch, err)
	}

	return r, nil
}

// fitNode fits the marginal and the local copula of v.
func (f *Factory) fitNode(data *sample.Sample, info *oracle.CorrectedMutualInformation,
	dag *core.NamedDAG, v int) (dist.Distribution, copula.Copula, NodeReport, error) {
	parents := dag.Parents(v)
	report := NodeReport{Node: v, Name: dag.Name(v), Parents: parents}

	// 1) Marginal, or a uniform box over the observed range.
	x := data.Column(v)
	marginal, name, err := f.fitMarginal(x)
	if err != nil {
		marginal, name = fallbackMarginal(x), "Uniform"
		report.MarginalErr = fmt.Errorf("%w: %w", ErrMarginalFit, err)
		f.logger.Warn("marginal fit failed", "node", report.Name, "fallback", marginal, "err", err)
	}
	report.Marginal = name

	fallback := func(reason string) (dist.Distribution, copula.Copula, NodeReport, error) {
		c := copula.NewIndependent(len(parents) + 1)
		report.Copula, report.Fallback = "Independent", reason
		f.logger.Debug("independent copula", "node", report.Name, "parents", len(parents), "reason", reason, "err", report.Err)
		return marginal, c, report, nil
	}

	// 2) Roots and bounded parent sets.
	if len(parents) == 0 {
		report.Copula = "Independent"
		return marginal, copula.NewIndependent(1), report, nil
	}
	if len(parents) > f.opts.MaxParents {
		return fallback(FallbackMaxParents)
	}

	// 3) Dependence of v on its parents: 2N·I(v; pa) ~ χ²_|pa|.
	mi, err := info.SetInformation([]int{v}, parents)
	if err != nil {
		return nil, nil, report, fmt.Errorf("node %s: %w", report.Name, err)
	}
	stat := 2 * float64(data.Size()) * math.Max(mi, 0)
	report.PValue = distuv.ChiSquared{K: float64(len(parents))}.Survival(stat)
	if report.PValue >= f.opts.Alpha {
		return fallback(FallbackNotSignificant)
	}

	// 4) Local copula over (parents..., v).
	local, err := data.Marginal(append(append([]int(nil), parents...), v))
	if err != nil {
		return nil, nil, report, fmt.Errorf("node %s: %w", report.Name, err)
	}
	c, name, score, err := f.fitCopula(local)
	if err != nil {
		report.Err = err
		return fallback(FallbackFitFailed)
	}
	report.Copula, report.Score = name, score
	f.logger.Debug("local copula", "node", report.Name, "parents", len(parents), "copula", name, "p", report.PValue)

	return marginal, c, report, nil
}

// fitMarginal fits the marginal, selecting by validation log-likelihood
// among several families.
func (f *Factory) fitMarginal(x []float64) (dist.Distribution, string, error) {
	if f.opts.WorkInCopulaSpace {
		return dist.Uniform{Min: 0, Max: 1}, "Uniform", nil
	}
	if len(f.opts.MarginalFactories) == 1 {
		fac := f.opts.MarginalFactories[0]
		d, err := fac.Build(x)
		return d, fac.Name(), err
	}

	cut := learningSize(len(x), f.opts.LearningRatio)
	learn, valid := x[:cut], x[cut:]
	var (
		best      dist.Distribution
		bestName  string
		bestScore = math.Inf(-1)
		errs      []error
	)
	for _, fac := range f.opts.MarginalFactories {
		d, err := fac.Build(learn)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", fac.Name(), err))
			continue
		}
		score := 0.0
		for _, v := range valid {
			score += d.LogPDF(v)
		}
		score /= float64(len(valid))
		if best == nil || score > bestScore {
			best, bestName, bestScore = d, fac.Name(), score
		}
	}
	if best == nil {
		return nil, "", errors.Join(errs...)
	}
	// Refit the winner on every row.
	for _, fac := range f.opts.MarginalFactories {
		if fac.Name() == bestName {
			if d, err := fac.Build(x); err == nil {
				return d, bestName, nil
			}
		}
	}

	return best, bestName, nil
}

// fitCopula fits the local copula on the pseudo-observations of local,
// selecting by validation log-likelihood among several families.
func (f *Factory) fitCopula(local *sample.Sample) (copula.Copula, string, float64, error) {
	if len(f.opts.CopulaFactories) == 1 {
		fac := f.opts.CopulaFactories[0]
		c, err := fac.Build(local)
		return c, fac.Name(), 0, err
	}

	u := local.PseudoObservations()
	learn, valid, err := u.Split(f.opts.LearningRatio)
	if err != nil {
		return nil, "", 0, err
	}
	var (
		best      copula.Copula
		bestName  string
		bestScore = math.Inf(-1)
		errs      []error
	)
	for _, fac := range f.opts.CopulaFactories {
		c, err := fac.Build(learn)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", fac.Name(), err))
			continue
		}
		score, err := copula.LogLikelihood(c, valid)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", fac.Name(), err))
			continue
		}
		f.logger.Debug("copula candidate", "family", fac.Name(), "score", score)
		if best == nil || score > bestScore {
			best, bestName, bestScore = c, fac.Name(), score
		}
	}
	if best == nil {
		return nil, "", 0, errors.Join(errs...)
	}

	return best, bestName, bestScore, nil
}

// fallbackMarginal is Uniform over the observed range, widened by one
// average spacing on each side, or by 1/2 around a constant column.
func fallbackMarginal(x []float64) dist.Distribution {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	switch {
	case len(x) == 0 || math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return dist.Uniform{Min: 0, Max: 1}
	case !(hi > lo):
		return dist.Uniform{Min: lo - 0.5, Max: hi + 0.5}
	}
	delta := (hi - lo) / float64(max(len(x)-1, 1))

	return dist.Uniform{Min: lo - delta, Max: hi + delta}
}

func learningSize(n int, ratio float64) int {
	cut := int(float64(n) * ratio)
	if cut < 1 {
		cut = 1
	}
	if cut > n-1 {
		cut = n - 1
	}

	return cut
}

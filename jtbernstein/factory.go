package jtbernstein

import (
	"fmt"

	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/pc"
	"github.com/katalvlaran/copulanet/sample"
)

const methodBuild = "Build"

var _ copula.Factory = (*Factory)(nil)

// Factory fits junction-tree Bernstein copulas, learning the tree with PC
// when Options.JunctionTree is nil.
type Factory struct {
	opts Options
}

// NewFactory validates the options.
func NewFactory(opts ...Option) (*Factory, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate("NewFactory"); err != nil {
		return nil, err
	}

	return &Factory{opts: o}, nil
}

// Name returns "JunctionTreeBernstein".
func (f *Factory) Name() string { return "JunctionTreeBernstein" }

// Build implements copula.Factory.
func (f *Factory) Build(s *sample.Sample) (copula.Copula, error) {
	return f.BuildCopula(s)
}

// BuildCopula fits the copula on s.
func (f *Factory) BuildCopula(s *sample.Sample) (*Copula, error) {
	if s == nil {
		return nil, ErrNilSample
	}
	jt := f.opts.JunctionTree
	if jt == nil {
		l, err := pc.New(s,
			pc.WithAlpha(f.opts.Alpha),
			pc.WithMaxConditioningSetSize(f.opts.MaxConditioningSetSize),
			pc.WithWorkers(f.opts.Workers),
			pc.WithLogger(f.opts.Logger))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodBuild, err)
		}
		if jt, err = l.LearnJunctionTree(); err != nil {
			return nil, fmt.Errorf("%s: %w", methodBuild, err)
		}
	}

	return newCopula(jt, s, f.opts)
}

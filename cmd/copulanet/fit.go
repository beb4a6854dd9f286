package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/copulanet/cbn"
	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/dist"
	"github.com/katalvlaran/copulanet/jtbernstein"
	"github.com/katalvlaran/copulanet/sample"
)

// fitFlags are shared by fit and sample.
type fitFlags struct {
	dag         string
	copulas     []string
	marginals   []string
	copulaSpace bool
}

func (f *fitFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dag, "dag", "", `structure such as "A->B->C;D", learned by PC when empty`)
	cmd.Flags().StringSliceVar(&f.copulas, "copula", []string{"bernstein"},
		"candidate local copulas: independent, gaussian, bernstein, jt")
	cmd.Flags().StringSliceVar(&f.marginals, "marginal", []string{"kernel"},
		"candidate marginals: kernel, normal, uniform")
	cmd.Flags().BoolVar(&f.copulaSpace, "copula-space", false, "fit on pseudo-observations with uniform marginals")
}

func newFitCmd(a *app) *cobra.Command {
	var ff fitFlags
	cmd := &cobra.Command{
		Use:   "fit <data.csv>",
		Short: "Fit a copula Bayesian network and print its local models",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.readSample(cmd, args[0])
			if err != nil {
				return err
			}
			net, err := a.fit(s, ff)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if _, err = fmt.Fprint(w, net); err != nil {
				return err
			}
			return writeReports(w, net.Reports())
		},
	}
	ff.bind(cmd)

	return cmd
}

func newSampleCmd(a *app) *cobra.Command {
	var (
		ff   fitFlags
		size int
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "sample <data.csv>",
		Short: "Fit a network and write draws from it as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.readSample(cmd, args[0])
			if err != nil {
				return err
			}
			net, err := a.fit(s, ff)
			if err != nil {
				return err
			}
			draws, err := net.Sample(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), size)
			if err != nil {
				return err
			}
			return draws.WriteCSV(cmd.OutOrStdout())
		},
	}
	ff.bind(cmd)
	cmd.Flags().IntVarP(&size, "size", "n", 1000, "number of draws")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")

	return cmd
}

// fit builds the factory from the configuration and the flags.
func (a *app) fit(s *sample.Sample, ff fitFlags) (*cbn.Network, error) {
	c := a.cfg.Factory
	opts := []cbn.Option{
		cbn.WithAlpha(c.Alpha),
		cbn.WithMaxParents(c.MaxParents),
		cbn.WithMaxConditioningSetSize(c.MaxConditioningSetSize),
		cbn.WithLearningRatio(c.LearningRatio),
		cbn.WithWorkers(c.Workers),
		cbn.WithLogger(a.logger),
	}
	if c.WorkInCopulaSpace || ff.copulaSpace {
		opts = append(opts, cbn.WithWorkInCopulaSpace())
	}
	if ff.dag != "" {
		d, err := core.ParseNamedDAG(ff.dag)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cbn.WithDAG(d))
	}

	copulas := make([]copula.Factory, 0, len(ff.copulas))
	for _, name := range ff.copulas {
		f, err := a.copulaFactory(name)
		if err != nil {
			return nil, err
		}
		copulas = append(copulas, f)
	}
	marginals := make([]dist.Factory, 0, len(ff.marginals))
	for _, name := range ff.marginals {
		f, err := marginalFactory(name)
		if err != nil {
			return nil, err
		}
		marginals = append(marginals, f)
	}
	opts = append(opts, cbn.WithCopulaFactories(copulas...), cbn.WithMarginalFactories(marginals...))

	f, err := cbn.NewFactory(opts...)
	if err != nil {
		return nil, err
	}

	return f.Build(s)
}

func (a *app) copulaFactory(name string) (copula.Factory, error) {
	switch strings.ToLower(name) {
	case "independent":
		return copula.IndependentFactory{}, nil
	case "gaussian", "normal":
		return copula.GaussianFactory{}, nil
	case "bernstein":
		return copula.BernsteinFactory{}, nil
	case "jt", "jtbernstein":
		c := a.cfg.JTBernstein
		return jtbernstein.NewFactory(
			jtbernstein.WithBinNumber(c.BinNumber),
			jtbernstein.WithAlpha(c.Alpha),
			jtbernstein.WithMaxConditioningSetSize(c.MaxConditioningSetSize),
			jtbernstein.WithRejection(c.MaxTrials),
			jtbernstein.WithLogger(a.logger))
	}

	return nil, fmt.Errorf("unknown copula family %q", name)
}

func marginalFactory(name string) (dist.Factory, error) {
	switch strings.ToLower(name) {
	case "kernel", "ks":
		return dist.KernelSmoothingFactory{}, nil
	case "normal":
		return dist.NormalFactory{}, nil
	case "uniform":
		return dist.UniformFactory{}, nil
	}

	return nil, fmt.Errorf("unknown marginal family %q", name)
}

// writeReports prints one line per node.
func writeReports(w io.Writer, reports []cbn.NodeReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tPARENTS\tMARGINAL\tCOPULA\tP-VALUE\tFALLBACK")
	for _, r := range reports {
		fallback := r.Fallback
		if fallback == cbn.FallbackNone {
			fallback = "-"
		}
		marginal := r.Marginal
		if r.MarginalErr != nil {
			marginal += " (fallback)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.3g\t%s\n", r.Name, len(r.Parents), marginal, r.Copula, r.PValue, fallback)
	}

	return tw.Flush()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/miic"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/pc"
	"github.com/katalvlaran/copulanet/sample"
	"github.com/katalvlaran/copulanet/tabu"
)

const (
	stageSkeleton = "skeleton"
	stagePDAG     = "pdag"
	stageDAG      = "dag"
	stageJT       = "jt"

	formatText  = "text"
	formatDOT   = "dot"
	formatProto = "proto"
)

func newLearnCmd(a *app) *cobra.Command {
	var algo, stage, format string
	cmd := &cobra.Command{
		Use:   "learn <data.csv>",
		Short: "Learn a network structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.readSample(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := a.learn(s, algo, stage, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&algo, "algo", "pc", "learner: pc, miic or tabu")
	cmd.Flags().StringVar(&stage, "stage", stageDAG, "stage: skeleton, pdag, dag or jt (pc only)")
	cmd.Flags().StringVar(&format, "format", formatText, "output: text, dot or proto (dag only)")

	return cmd
}

// learn runs one learner up to stage and renders the result.
func (a *app) learn(s *sample.Sample, algo, stage, format string) (string, error) {
	switch algo {
	case "pc":
		l, err := a.newPC(s)
		if err != nil {
			return "", err
		}
		if format == formatDOT {
			switch stage {
			case stageSkeleton:
				return l.SkeletonDOT()
			case stagePDAG:
				return l.PDAGDOT()
			case stageDAG:
				return l.DAGDOT()
			}
		}
		if stage == stageJT {
			jt, err := l.LearnJunctionTree()
			if err != nil {
				return "", err
			}
			if format == formatDOT {
				return jt.DOT(), nil
			}
			return jt.String(), nil
		}
		return render(stage, format, l.LearnSkeleton, l.LearnPDAG, l.LearnDAG)

	case "miic":
		l, err := a.newMIIC(s)
		if err != nil {
			return "", err
		}
		return render(stage, format, l.LearnSkeleton, l.LearnPDAG, l.LearnDAG)

	case "tabu":
		if stage != stageDAG {
			return "", fmt.Errorf("tabu learns DAGs only, got stage %q", stage)
		}
		l, err := a.newTabu(s)
		if err != nil {
			return "", err
		}
		out, err := render(stage, format, nil, nil, l.LearnDAG)
		if err != nil {
			return "", err
		}
		a.logger.Info("tabu search done", "score", l.BestScore())
		return out, nil
	}

	return "", fmt.Errorf("unknown learner %q", algo)
}

// render runs the requested stage and formats it.
func render(stage, format string,
	skeleton, pdag func() (*core.PDAG, error), dag func() (*core.NamedDAG, error)) (string, error) {
	switch stage {
	case stageSkeleton, stagePDAG:
		learn := skeleton
		if stage == stagePDAG {
			learn = pdag
		}
		g, err := learn()
		if err != nil {
			return "", err
		}
		switch format {
		case formatDOT:
			return g.DOT(core.WithGraphName(stage)), nil
		case formatText:
			return g.String(), nil
		}
	case stageDAG:
		d, err := dag()
		if err != nil {
			return "", err
		}
		switch format {
		case formatDOT:
			return d.DOT(core.WithGraphName(stage)), nil
		case formatProto:
			return d.Prototype() + "\n", nil
		case formatText:
			return d.String(), nil
		}
	default:
		return "", fmt.Errorf("unknown stage %q", stage)
	}

	return "", fmt.Errorf("format %q does not apply to stage %q", format, stage)
}

func (a *app) newPC(s *sample.Sample) (*pc.Learner, error) {
	c := a.cfg.PC
	opts := []pc.Option{
		pc.WithAlpha(c.Alpha),
		pc.WithMaxConditioningSetSize(c.MaxConditioningSetSize),
		pc.WithWorkers(c.Workers),
		pc.WithLogger(a.logger),
	}
	if c.OptimalPolicy {
		opts = append(opts, pc.WithOptimalPolicy())
	}
	if c.Test == "hellinger" {
		t, err := oracle.NewHellingerTest(s, c.Alpha, oracle.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, pc.WithTester(t))
	}

	return pc.New(s, opts...)
}

func (a *app) newMIIC(s *sample.Sample) (*miic.Learner, error) {
	c := a.cfg.MIIC
	cmode, kmode, err := modes(c.CMode, c.KMode)
	if err != nil {
		return nil, err
	}

	return miic.New(s,
		miic.WithCMode(cmode),
		miic.WithKMode(kmode),
		miic.WithAlpha(c.Alpha),
		miic.WithMaxConditioningSetSize(c.MaxConditioningSetSize),
		miic.WithLogger(a.logger))
}

func (a *app) newTabu(s *sample.Sample) (*tabu.Learner, error) {
	c := a.cfg.Tabu
	cmode, kmode, err := modes(c.CMode, c.KMode)
	if err != nil {
		return nil, err
	}

	return tabu.New(s,
		tabu.WithCMode(cmode),
		tabu.WithKMode(kmode),
		tabu.WithMaxParents(c.MaxParents),
		tabu.WithRestarts(c.Restarts),
		tabu.WithTabuListSize(c.TabuListSize),
		tabu.WithMaxIterations(c.MaxIterations),
		tabu.WithSeed(c.Seed),
		tabu.WithLogger(a.logger))
}

func modes(c, k string) (oracle.CMode, oracle.KMode, error) {
	cmode, err := oracle.ParseCMode(c)
	if err != nil {
		return 0, 0, err
	}
	kmode, err := oracle.ParseKMode(k)
	if err != nil {
		return 0, 0, err
	}

	return cmode, kmode, nil
}

package tabu

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/katalvlaran/copulanet/builder"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodNew       = "New"
	methodLearnDAG  = "LearnDAG"
	methodScore     = "Score"
	methodRestart   = "restart"
	methodDeltaMove = "delta"
)

// minImprovement absorbs rounding in the deltas of score-equivalent
// reversals.
const minImprovement = 1e-9

// Learner runs tabu search on one sample. LearnDAG is computed once.
type Learner struct {
	names  []string
	info   *oracle.CorrectedMutualInformation
	opts   Options
	logger *slog.Logger
	rng    *rand.Rand
	n      float64 // sample size
	start  *core.PDAG

	mu        sync.Mutex
	done      bool
	best      *core.NamedDAG
	bestScore float64
}

// New prepares a learner on s.
func New(s *sample.Sample, opts ...Option) (*Learner, error) {
	if s == nil {
		return nil, ErrNilSample
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxParents < 0 || o.Restarts < 1 || o.TabuListSize < 0 || o.MaxIterations < 0 {
		return nil, fmt.Errorf("%s: max parents %d, restarts %d, tabu size %d, iterations %d: %w",
			methodNew, o.MaxParents, o.Restarts, o.TabuListSize, o.MaxIterations, ErrInvalidOption)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	info, err := oracle.NewCorrectedMutualInformation(s,
		oracle.WithCMode(o.CMode), oracle.WithKMode(o.KMode), oracle.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodNew, err)
	}

	names := s.Names()
	var start *core.PDAG
	if o.InitialDAG != nil {
		if o.InitialDAG.Order() != len(names) {
			return nil, fmt.Errorf("%s: %d nodes for %d columns: %w", methodNew, o.InitialDAG.Order(), len(names), ErrDimensionMismatch)
		}
		d, err := o.InitialDAG.Reindex(names)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", methodNew, ErrDimensionMismatch, err)
		}
		start = d.ToPDAG()
	} else if start, err = core.NewPDAG(names); err != nil {
		return nil, fmt.Errorf("%s: %w", methodNew, err)
	}

	return &Learner{
		names:  names,
		info:   info,
		opts:   o,
		logger: logger.With("learner", "tabu"),
		rng:    rand.New(rand.NewPCG(o.Seed, o.Seed^0x5851f42d4c957f2d)),
		n:      float64(s.Size()),
		start:  start,
	}, nil
}

// MaxParents returns the in-degree bound.
func (l *Learner) MaxParents() int { return l.opts.MaxParents }

// Restarts returns the number of runs.
func (l *Learner) Restarts() int { return l.opts.Restarts }

// LearnDAG runs the search once and returns the best DAG.
func (l *Learner) LearnDAG() (*core.NamedDAG, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return l.best, nil
	}
	begin := time.Now()

	g := l.start.Clone()
	for run := 0; run < l.opts.Restarts; run++ {
		if run > 0 {
			d, err := builder.BuildDAG(len(l.names), []builder.BuilderOption{
				builder.WithNames(l.names...),
				builder.WithRand(l.rng),
				builder.WithMaxParents(l.opts.MaxParents),
			}, builder.RandomWalk(builder.DefaultWalkSteps))
			if err != nil {
				return nil, fmt.Errorf("%s: %s %d: %w", methodLearnDAG, methodRestart, run, err)
			}
			g = d.ToPDAG()
		}
		score, iters, err := l.search(g)
		if err != nil {
			return nil, fmt.Errorf("%s: run %d: %w", methodLearnDAG, run, err)
		}
		d, err := g.ToNamedDAG()
		if err != nil {
			return nil, fmt.Errorf("%s: run %d: %w", methodLearnDAG, run, err)
		}
		l.logger.Debug("run done", "run", run, "score", score, "moves", iters, "arcs", d.NumArcs())
		if l.best == nil || score > l.bestScore {
			l.best, l.bestScore = d, score
		}
	}
	l.done = true
	l.logger.Info("dag learned", "score", l.bestScore, "arcs", l.best.NumArcs(), "elapsed", time.Since(begin))

	return l.best, nil
}

// BestScore returns the score of the DAG returned by LearnDAG, or NaN
// before it has run.
func (l *Learner) BestScore() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		return math.NaN()
	}

	return l.bestScore
}

// Score evaluates d, whose names must be the sample's.
func (l *Learner) Score(d *core.NamedDAG) (float64, error) {
	r, err := d.Reindex(l.names)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", methodScore, ErrDimensionMismatch, err)
	}

	return l.score(r.ToPDAG())
}

// search runs one tabu search in place and returns the final score and the
// number of moves applied.
func (l *Learner) search(g *core.PDAG) (float64, int, error) {
	score, err := l.score(g)
	if err != nil {
		return 0, 0, err
	}
	var tabu []core.Move // most recent first
	iters := 0
	for l.opts.MaxIterations == 0 || iters < l.opts.MaxIterations {
		var (
			best  core.Move
			delta = math.Inf(-1)
		)
		for _, m := range g.LegalMoves(l.opts.MaxParents) {
			if isTabu(tabu, m) {
				continue
			}
			d, err := l.delta(g, m)
			if err != nil {
				return 0, iters, err
			}
			if d > delta {
				best, delta = m, d
			}
		}
		if delta <= minImprovement {
			break
		}
		if err = g.Apply(best); err != nil {
			return 0, iters, err
		}
		score += delta
		iters++
		if l.opts.TabuListSize > 0 {
			if len(tabu) == l.opts.TabuListSize {
				tabu = tabu[:len(tabu)-1]
			}
			tabu = append([]core.Move{best.Inverse()}, tabu...)
		}
		l.logger.Debug("move", "move", best.String(), "delta", delta, "score", score)
	}

	return score, iters, nil
}

func isTabu(tabu []core.Move, m core.Move) bool {
	for _, t := range tabu {
		if t == m {
			return true
		}
	}

	return false
}

// score sums the per-node terms.
func (l *Learner) score(g *core.PDAG) (float64, error) {
	penalty := math.Log(l.n) / 2
	total := 0.0
	for v := 0; v < g.Order(); v++ {
		pa := g.Parents(v)
		if len(pa) == 0 {
			continue
		}
		i, err := l.info.CorrectedSetInformation([]int{v}, pa)
		if err != nil {
			return 0, err
		}
		total += l.n*i - float64(len(pa))*penalty
	}

	return total, nil
}

// family returns I'(v; ps).
func (l *Learner) family(v int, ps []int) (float64, error) {
	return l.info.CorrectedSetInformation([]int{v}, ps)
}

// delta returns the score change of m on g.
func (l *Learner) delta(g *core.PDAG, m core.Move) (float64, error) {
	x, y := m.From, m.To
	paY := g.Parents(y)
	before, err := l.family(y, paY)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", methodDeltaMove, m, err)
	}
	penalty := math.Log(l.n) / 2

	switch m.Kind {
	case core.ArcAddition:
		after, err := l.family(y, append(paY, x))
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", methodDeltaMove, m, err)
		}
		return l.n*(after-before) - penalty, nil
	case core.ArcDeletion:
		after, err := l.family(y, without(paY, x))
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", methodDeltaMove, m, err)
		}
		return l.n*(after-before) + penalty, nil
	default:
		paX := g.Parents(x)
		xBefore, err := l.family(x, paX)
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", methodDeltaMove, m, err)
		}
		xAfter, err := l.family(x, append(paX, y))
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", methodDeltaMove, m, err)
		}
		yAfter, err := l.family(y, without(paY, x))
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", methodDeltaMove, m, err)
		}
		return l.n * (xAfter + yAfter - xBefore - before), nil
	}
}

func without(s []int, v int) []int {
	out := make([]int, 0, len(s))
	for _, u := range s {
		if u != v {
			out = append(out, u)
		}
	}

	return out
}

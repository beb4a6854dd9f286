package miic

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodNew           = "New"
	methodLearnSkeleton = "LearnSkeleton"
	methodLearnPDAG     = "LearnPDAG"
	methodLearnDAG      = "LearnDAG"
)

// Learner runs MIIC on one sample. Its methods are safe for concurrent
// use; each stage is computed once.
type Learner struct {
	names  []string
	info   *oracle.CorrectedMutualInformation
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	skeleton *core.PDAG
	pdag     *core.PDAG
	dag      *core.NamedDAG
	sepsets  map[pair][]int
	scores   []Score
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
	if o.MaxConditioningSetSize < 0 || o.Workers < 1 {
		return nil, fmt.Errorf("%s: max cond set %d, workers %d: %w",
			methodNew, o.MaxConditioningSetSize, o.Workers, ErrInvalidOption)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info := o.Information
	if info == nil {
		var err error
		info, err = oracle.NewCorrectedMutualInformation(s,
			oracle.WithCMode(o.CMode), oracle.WithKMode(o.KMode),
			oracle.WithAlpha(o.Alpha), oracle.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodNew, err)
		}
	}
	if info.Dim() != s.Dim() {
		return nil, fmt.Errorf("%s: estimator dim %d, sample dim %d: %w", methodNew, info.Dim(), s.Dim(), ErrDimensionMismatch)
	}

	return &Learner{
		names:  s.Names(),
		info:   info,
		opts:   o,
		logger: logger.With("learner", "miic"),
	}, nil
}

// Information returns the estimator in use.
func (l *Learner) Information() *oracle.CorrectedMutualInformation { return l.info }

// LearnSkeleton returns a copy of the learned skeleton.
func (l *Learner) LearnSkeleton() (*core.PDAG, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.skeletonLocked(); err != nil {
		return nil, err
	}

	return l.skeleton.Clone(), nil
}

// LearnPDAG returns a copy of the oriented skeleton.
func (l *Learner) LearnPDAG() (*core.PDAG, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.pdagLocked(); err != nil {
		return nil, err
	}

	return l.pdag.Clone(), nil
}

// LearnDAG returns a DAG consistent with the learned PDAG.
func (l *Learner) LearnDAG() (*core.NamedDAG, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.dagLocked(); err != nil {
		return nil, err
	}

	return l.dag, nil
}

// Sepset returns the conditioning set that removed x–y.
func (l *Learner) Sepset(x, y int) ([]int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sepsets[mkPair(x, y)]

	return append([]int(nil), s...), ok
}

// Scores returns the orientation scores of the unshielded triples, most
// negative first. It is empty until LearnPDAG has run.
func (l *Learner) Scores() []Score {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Score(nil), l.scores...)
}

// edgeState tracks one remaining edge of the skeleton loop.
type edgeState struct {
	x, y    int
	cond    []int
	current float64 // I'(x;y|cond)
	best    int     // contributor, -1 if none
	score   float64 // I'(x;y;best|cond)
}

func (l *Learner) skeletonLocked() error {
	if l.skeleton != nil {
		return nil
	}
	start := time.Now()
	g, err := core.NewCompletePDAG(l.names)
	if err != nil {
		return err
	}
	l.sepsets = make(map[pair][]int)

	// 1) Pairwise pass.
	edges := g.Edges()
	mi := make([]float64, len(edges))
	var eg errgroup.Group
	eg.SetLimit(l.opts.Workers)
	for i, e := range edges {
		eg.Go(func() error {
			v, err := l.info.CorrectedInformation(e.From, e.To, nil)
			mi[i] = v
			return err
		})
	}
	if err = eg.Wait(); err != nil {
		return fmt.Errorf("%s: %w", methodLearnSkeleton, err)
	}
	var states []*edgeState
	for i, e := range edges {
		if mi[i] <= 0 {
			if err = l.remove(g, e.From, e.To, nil, mi[i]); err != nil {
				return err
			}
			continue
		}
		states = append(states, &edgeState{x: e.From, y: e.To, current: mi[i], best: -1})
	}
	l.logger.Debug("pairwise pass done", "kept", len(states), "removed", len(edges)-len(states))

	// 2) Contributors of the remaining edges.
	for _, st := range states {
		if err = l.contributor(g, st); err != nil {
			return fmt.Errorf("%s: %w", methodLearnSkeleton, err)
		}
	}

	// 3) Absorb the strongest contributor until none is left.
	for {
		var top *edgeState
		for _, st := range states {
			if st.best >= 0 && g.Adjacent(st.x, st.y) && (top == nil || st.score > top.score) {
				top = st
			}
		}
		if top == nil {
			break
		}
		// The contributor may have lost its edge to x and y since it was chosen.
		if !g.Adjacent(top.best, top.x) && !g.Adjacent(top.best, top.y) {
			if err = l.contributor(g, top); err != nil {
				return fmt.Errorf("%s: %w", methodLearnSkeleton, err)
			}
			continue
		}
		top.cond = append(top.cond, top.best)
		sort.Ints(top.cond)
		if top.current, err = l.info.CorrectedInformation(top.x, top.y, top.cond); err != nil {
			return fmt.Errorf("%s: %w", methodLearnSkeleton, err)
		}
		if top.current <= 0 {
			if err = l.remove(g, top.x, top.y, top.cond, top.current); err != nil {
				return err
			}
			top.best = -1
			continue
		}
		if err = l.contributor(g, top); err != nil {
			return fmt.Errorf("%s: %w", methodLearnSkeleton, err)
		}
	}
	l.skeleton = g
	l.logger.Info("skeleton learned", "edges", g.EdgeCount(), "removed", len(l.sepsets), "elapsed", time.Since(start))

	return nil
}

// contributor recomputes the best contributor of st.
func (l *Learner) contributor(g *core.PDAG, st *edgeState) error {
	st.best, st.score = -1, 0
	if len(st.cond) >= l.opts.MaxConditioningSetSize {
		return nil
	}
	for z := 0; z < g.Order(); z++ {
		if z == st.x || z == st.y || contains(st.cond, z) {
			continue
		}
		if !g.Adjacent(z, st.x) && !g.Adjacent(z, st.y) {
			continue
		}
		i3, err := l.info.CorrectedInformation3(st.x, st.y, z, st.cond)
		if err != nil {
			return err
		}
		if i3 <= 0 || (st.best >= 0 && i3 <= st.score) {
			continue
		}
		withZ, err := l.info.CorrectedInformation(st.x, st.y, append(append([]int(nil), st.cond...), z))
		if err != nil {
			return err
		}
		if withZ < st.current {
			st.best, st.score = z, i3
		}
	}

	return nil
}

func (l *Learner) remove(g *core.PDAG, x, y int, cond []int, info float64) error {
	if err := g.RemoveEdge(x, y); err != nil {
		return err
	}
	l.sepsets[mkPair(x, y)] = append([]int(nil), cond...)
	l.logger.Debug("edge removed", "x", l.names[x], "y", l.names[y], "cond", len(cond), "info", info)

	return nil
}

func (l *Learner) pdagLocked() error {
	if l.pdag != nil {
		return nil
	}
	if err := l.skeletonLocked(); err != nil {
		return err
	}
	g := l.skeleton.Clone()

	// 1) Score every unshielded triple.
	l.scores = l.scores[:0]
	for _, t := range g.UnshieldedTriples() {
		cond := without(l.sepsets[mkPair(t.X, t.Y)], t.Z)
		i3, err := l.info.CorrectedInformation3(t.X, t.Y, t.Z, cond)
		if err != nil {
			return fmt.Errorf("%s: %w", methodLearnPDAG, err)
		}
		l.scores = append(l.scores, Score{X: t.X, Z: t.Z, Y: t.Y, I3: i3})
	}
	sort.SliceStable(l.scores, func(i, j int) bool { return l.scores[i].I3 < l.scores[j].I3 })

	// 2) Colliders, most negative first.
	oriented := 0
	for _, s := range l.scores {
		if s.I3 >= 0 {
			break
		}
		if err := g.OrientCollider(s.X, s.Z, s.Y); err != nil {
			l.logger.Debug("collider skipped", "x", l.names[s.X], "z", l.names[s.Z], "y", l.names[s.Y], "err", err)
			continue
		}
		oriented++
	}

	// 3) Propagation.
	propagated := g.ApplyMeekRules()
	l.pdag = g
	l.logger.Info("pdag learned", "triples", len(l.scores), "colliders", oriented, "propagated", propagated)

	return nil
}

func (l *Learner) dagLocked() error {
	if l.dag != nil {
		return nil
	}
	if err := l.pdagLocked(); err != nil {
		return err
	}
	d, err := l.pdag.Extension()
	if err != nil {
		return fmt.Errorf("%s: %w", methodLearnDAG, err)
	}
	l.dag = d
	l.logger.Info("dag learned", "arcs", d.NumArcs())

	return nil
}

func contains(s []int, v int) bool {
	for _, u := range s {
		if u == v {
			return true
		}
	}

	return false
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

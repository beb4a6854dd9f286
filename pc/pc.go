package pc

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/junction"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/sample"
)

const (
	methodNew           = "New"
	methodLearnSkeleton = "LearnSkeleton"
	methodLearnPDAG     = "LearnPDAG"
	methodLearnDAG      = "LearnDAG"
)

// Learner runs PC on one sample. Its methods are safe for concurrent use;
// each stage is computed once.
type Learner struct {
	names  []string
	tester oracle.Tester
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	skeleton *core.PDAG
	pdag     *core.PDAG
	dag      *core.NamedDAG
	sepsets  map[pair][]int
	pvalues  map[pair]float64
	stats    map[pair]float64
	removed  []pair
}

// New prepares a learner. Without WithTester it builds a CMITest over a
// Gaussian, uncorrected information estimator of s at level Alpha.
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

	tester := o.Tester
	if tester == nil {
		if !(o.Alpha > 0 && o.Alpha < 1) {
			return nil, fmt.Errorf("%s: alpha %g: %w", methodNew, o.Alpha, ErrInvalidOption)
		}
		info, err := oracle.NewCorrectedMutualInformation(s,
			oracle.WithCMode(oracle.Gaussian), oracle.WithKMode(oracle.NoCorr), oracle.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if tester, err = oracle.NewCMITest(info, o.Alpha); err != nil {
			return nil, err
		}
	}
	if tester.Dim() != s.Dim() {
		return nil, fmt.Errorf("%s: tester dim %d, sample dim %d: %w", methodNew, tester.Dim(), s.Dim(), ErrDimensionMismatch)
	}

	return &Learner{
		names:  s.Names(),
		tester: tester,
		opts:   o,
		logger: logger.With("learner", "pc"),
	}, nil
}

// Tester returns the independence tester in use.
func (l *Learner) Tester() oracle.Tester { return l.tester }

// LearnSkeleton returns a copy of the learned undirected skeleton.
func (l *Learner) LearnSkeleton() (*core.PDAG, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.skeletonLocked(); err != nil {
		return nil, err
	}

	return l.skeleton.Clone(), nil
}

// LearnPDAG returns a copy of the skeleton oriented by v-structures and
// Meek's rules.
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

// LearnJunctionTree returns the junction tree of the learned DAG.
func (l *Learner) LearnJunctionTree() (*junction.JunctionTree, error) {
	d, err := l.LearnDAG()
	if err != nil {
		return nil, err
	}

	return junction.FromDAG(d)
}

// skeletonLocked implements stage 1.
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
	l.pvalues = make(map[pair]float64)
	l.stats = make(map[pair]float64)
	l.removed = nil
	l.tester.ClearCache()

	for order := 0; order <= l.opts.MaxConditioningSetSize; order++ {
		if order > 0 {
			l.tester.ClearCacheLevel(order - 1)
		}
		tested, cut, err := l.runOrder(g, order)
		if err != nil {
			return fmt.Errorf("%s: order %d: %w", methodLearnSkeleton, order, err)
		}
		l.logger.Debug("order done", "order", order, "tested", tested, "removed", cut, "edges", g.EdgeCount())
		if tested == 0 {
			break
		}
	}
	l.skeleton = g
	l.logger.Info("skeleton learned", "edges", g.EdgeCount(), "removed", len(l.removed), "elapsed", time.Since(start))

	return nil
}

// edgeResult is the outcome of the tests of one edge at one order.
type edgeResult struct {
	independent bool
	sepset      []int
	pvalue      float64 // largest p-value seen
	stat        float64 // statistic of that test
}

// runOrder tests, against a snapshot, every edge testable at this order and
// removes the separated ones. It returns the number of edges tested and cut.
func (l *Learner) runOrder(g *core.PDAG, order int) (int, int, error) {
	n := g.Order()
	adj := make([][]int, n)
	for v := 0; v < n; v++ {
		adj[v] = g.Neighbors(v)
	}
	var edges []pair
	for _, e := range g.Edges() {
		if len(adj[e.From])-1 >= order || len(adj[e.To])-1 >= order {
			edges = append(edges, mkPair(e.From, e.To))
		}
	}
	if len(edges) == 0 {
		return 0, 0, nil
	}

	results := make([]edgeResult, len(edges))
	var eg errgroup.Group
	eg.SetLimit(l.opts.Workers)
	for i, e := range edges {
		eg.Go(func() error {
			r, err := l.testEdge(adj, e.U, e.V, order)
			results[i] = r
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, 0, err
	}

	cut := 0
	for i, e := range edges {
		r := results[i]
		if p, seen := l.pvalues[e]; !seen || r.pvalue > p {
			l.pvalues[e] = r.pvalue
			l.stats[e] = r.stat
		}
		if !r.independent {
			continue
		}
		if err := g.RemoveEdge(e.U, e.V); err != nil {
			return 0, 0, err
		}
		l.sepsets[e] = r.sepset
		l.removed = append(l.removed, e)
		cut++
		l.logger.Debug("edge removed", "x", l.names[e.U], "y", l.names[e.V],
			"sepset", l.nameSet(r.sepset), "p", r.pvalue)
	}

	return len(edges), cut, nil
}

// testEdge searches a separating set of size order for x–y among the
// neighbors of x, then of y.
func (l *Learner) testEdge(adj [][]int, x, y, order int) (edgeResult, error) {
	best := edgeResult{pvalue: -1}
	found := false
	seen := make(map[string]struct{})

	for _, side := range [2][2]int{{x, y}, {y, x}} {
		pool := without(adj[side[0]], side[1])
		if len(pool) < order {
			continue
		}
		var testErr error
		stop := false
		combinations(pool, order, func(z []int) bool {
			key := setKey(z)
			if _, dup := seen[key]; dup {
				return true
			}
			seen[key] = struct{}{}

			r, err := l.tester.Test(x, y, z)
			if err != nil {
				testErr = err
				return false
			}
			improved := r.PValue > best.pvalue
			if improved {
				best.pvalue, best.stat = r.PValue, r.Statistic
			}
			if r.Independent && (!found || improved) {
				found = true
				best.sepset = append([]int(nil), z...)
				if !l.opts.OptimalPolicy {
					stop = true
					return false
				}
			}
			return true
		})
		if testErr != nil {
			return edgeResult{}, testErr
		}
		if stop {
			break
		}
	}
	best.independent = found

	return best, nil
}

// pdagLocked implements stage 2.
func (l *Learner) pdagLocked() error {
	if l.pdag != nil {
		return nil
	}
	if err := l.skeletonLocked(); err != nil {
		return err
	}
	g := l.skeleton.Clone()

	// 1) Colliders, strongest separation of X and Y first.
	var colliders []core.Triple
	for _, t := range g.UnshieldedTriples() {
		sep, ok := l.sepsets[mkPair(t.X, t.Y)]
		if ok && !containsInt(sep, t.Z) {
			colliders = append(colliders, t)
		}
	}
	sort.SliceStable(colliders, func(i, j int) bool {
		return l.pvalues[mkPair(colliders[i].X, colliders[i].Y)] > l.pvalues[mkPair(colliders[j].X, colliders[j].Y)]
	})
	oriented := 0
	for _, t := range colliders {
		if err := g.OrientCollider(t.X, t.Z, t.Y); err != nil {
			l.logger.Debug("collider skipped", "x", l.names[t.X], "z", l.names[t.Z], "y", l.names[t.Y], "err", err)
			continue
		}
		oriented++
	}

	// 2) Propagation.
	propagated := g.ApplyMeekRules()
	l.pdag = g
	l.logger.Info("pdag learned", "colliders", oriented, "propagated", propagated, "undirected", g.UndirectedCount())

	return nil
}

// dagLocked implements stage 3.
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

// Sepset returns the separating set recorded when x–y was removed.
func (l *Learner) Sepset(x, y int) ([]int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sepsets[mkPair(x, y)]

	return append([]int(nil), s...), ok
}

// PValue returns the largest p-value observed for x–y.
func (l *Learner) PValue(x, y int) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pvalues[mkPair(x, y)]
	if !ok {
		return 0, fmt.Errorf("PValue: %d-%d: %w", x, y, ErrUnknownEdge)
	}

	return p, nil
}

// Statistic returns the statistic of the test that gave PValue.
func (l *Learner) Statistic(x, y int) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.stats[mkPair(x, y)]
	if !ok {
		return 0, fmt.Errorf("Statistic: %d-%d: %w", x, y, ErrUnknownEdge)
	}

	return t, nil
}

// RemovedEdges returns the removed pairs in removal order.
func (l *Learner) RemovedEdges() [][2]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][2]int, len(l.removed))
	for i, p := range l.removed {
		out[i] = [2]int{p.U, p.V}
	}

	return out
}

func (l *Learner) nameSet(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = l.names[v]
	}

	return "{" + strings.Join(parts, ",") + "}"
}

// combinations calls fn with each size-k subset of pool in lexicographic
// order of positions until fn returns false. The slice passed to fn is
// reused between calls.
func combinations(pool []int, k int, fn func([]int) bool) {
	if k > len(pool) {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	cur := make([]int, k)
	for {
		for i, j := range idx {
			cur[i] = pool[j]
		}
		if !fn(cur) {
			return
		}
		// Advance the rightmost index that can move.
		i := k - 1
		for i >= 0 && idx[i] == len(pool)-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
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

func containsInt(s []int, v int) bool {
	for _, u := range s {
		if u == v {
			return true
		}
	}

	return false
}

func setKey(z []int) string {
	sorted := append([]int(nil), z...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}

// SkeletonDOT renders the skeleton with the statistic and p-value of each
// remaining edge.
func (l *Learner) SkeletonDOT() (string, error) {
	g, err := l.LearnSkeleton()
	if err != nil {
		return "", err
	}

	return g.DOT(core.WithGraphName("skeleton"), core.WithEdgeLabel(l.edgeLabel)), nil
}

// PDAGDOT renders the PDAG with the same labels as SkeletonDOT.
func (l *Learner) PDAGDOT() (string, error) {
	g, err := l.LearnPDAG()
	if err != nil {
		return "", err
	}

	return g.DOT(core.WithGraphName("pdag"), core.WithEdgeLabel(l.edgeLabel)), nil
}

// DAGDOT renders the DAG with the same labels as SkeletonDOT.
func (l *Learner) DAGDOT() (string, error) {
	d, err := l.LearnDAG()
	if err != nil {
		return "", err
	}

	return d.DOT(core.WithGraphName("dag"), core.WithEdgeLabel(l.edgeLabel)), nil
}

func (l *Learner) edgeLabel(u, v int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pvalues[mkPair(u, v)]
	if !ok {
		return ""
	}

	return fmt.Sprintf("t=%.3g\np=%.3g", l.stats[mkPair(u, v)], p)
}

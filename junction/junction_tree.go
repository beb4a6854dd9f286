package junction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/copulanet/bfs"
)

const (
	methodNew      = "New"
	methodMarginal = "Marginal"
)

// JunctionTree is an immutable forest of cliques satisfying the running
// intersection property.
type JunctionTree struct {
	names   []string
	cliques [][]int // sorted ascending
	edges   []CliqueEdge
	adj     bfs.AdjacencyList
}

// New validates and wraps a clique snapshot. names may be nil, in which
// case variables are named X0..X{n-1} with n the number of covered
// variables. Cliques are copied and sorted.
func New(names []string, cliques [][]int, edges []CliqueEdge) (*JunctionTree, error) {
	// 1) Cliques: non-empty, deduplicated, sorted.
	cs := make([][]int, len(cliques))
	maxVar := -1
	for i, c := range cliques {
		if len(c) == 0 {
			return nil, fmt.Errorf("%s: clique %d: %w", methodNew, i, ErrEmptyClique)
		}
		cs[i] = normalize(c)
		if cs[i][0] < 0 {
			return nil, fmt.Errorf("%s: clique %d has variable %d: %w", methodNew, i, cs[i][0], ErrCoverage)
		}
		maxVar = max(maxVar, cs[i][len(cs[i])-1])
	}

	// 2) Names and coverage of 0..n-1.
	n := maxVar + 1
	if names == nil {
		names = defaultNames(n)
	}
	if err := checkNames(names); err != nil {
		return nil, err
	}
	if len(names) != n {
		return nil, fmt.Errorf("%s: %d names for %d covered variables: %w", methodNew, len(names), n, ErrCoverage)
	}
	covered := make([]bool, n)
	for _, c := range cs {
		for _, v := range c {
			covered[v] = true
		}
	}
	for v, ok := range covered {
		if !ok {
			return nil, fmt.Errorf("%s: variable %d (%s) in no clique: %w", methodNew, v, names[v], ErrCoverage)
		}
	}

	// 3) Edges: a forest over the cliques.
	jt := &JunctionTree{
		names:   append([]string(nil), names...),
		cliques: cs,
		adj:     make(bfs.AdjacencyList, len(cs)),
	}
	seen := make(map[CliqueEdge]struct{}, len(edges))
	for _, e := range edges {
		if e.A < 0 || e.A >= len(cs) || e.B < 0 || e.B >= len(cs) {
			return nil, fmt.Errorf("%s: edge %d-%d: %w", methodNew, e.A, e.B, ErrCliqueOutOfRange)
		}
		if e.A == e.B {
			return nil, fmt.Errorf("%s: self-loop on clique %d: %w", methodNew, e.A, ErrNotATree)
		}
		if e.A > e.B {
			e.A, e.B = e.B, e.A
		}
		if _, dup := seen[e]; dup {
			return nil, fmt.Errorf("%s: repeated edge %d-%d: %w", methodNew, e.A, e.B, ErrNotATree)
		}
		seen[e] = struct{}{}
		jt.edges = append(jt.edges, e)
		jt.adj[e.A] = append(jt.adj[e.A], e.B)
		jt.adj[e.B] = append(jt.adj[e.B], e.A)
	}
	for _, nb := range jt.adj {
		sort.Ints(nb)
	}
	sort.Slice(jt.edges, func(i, j int) bool {
		if jt.edges[i].A != jt.edges[j].A {
			return jt.edges[i].A < jt.edges[j].A
		}
		return jt.edges[i].B < jt.edges[j].B
	})
	if comps := bfs.Components(jt.adj); len(jt.edges) != len(cs)-len(comps) {
		return nil, fmt.Errorf("%s: %d edges over %d cliques in %d components: %w",
			methodNew, len(jt.edges), len(cs), len(comps), ErrNotATree)
	}

	// 4) Running intersection.
	if err := jt.checkRunningIntersection(); err != nil {
		return nil, err
	}

	return jt, nil
}

// checkRunningIntersection walks, for each variable, the cliques holding it
// from the first such clique and requires all of them to be reached.
func (jt *JunctionTree) checkRunningIntersection() error {
	holders := make([][]int, len(jt.names))
	for ci, c := range jt.cliques {
		for _, v := range c {
			holders[v] = append(holders[v], ci)
		}
	}
	for v, hs := range holders {
		if len(hs) < 2 {
			continue
		}
		res, err := bfs.BFS(jt.adj, hs[0], bfs.WithFilterNeighbor(func(_, nb int) bool {
			return contains(jt.cliques[nb], v)
		}))
		if err != nil {
			return err
		}
		for _, ci := range hs[1:] {
			if !res.Reached(ci) {
				return fmt.Errorf("%s: variable %d (%s) in cliques %d and %d: %w",
					methodNew, v, jt.names[v], hs[0], ci, ErrRunningIntersection)
			}
		}
	}

	return nil
}

// Size returns the number of variables.
func (jt *JunctionTree) Size() int { return len(jt.names) }

// Names returns the variable names.
func (jt *JunctionTree) Names() []string { return append([]string(nil), jt.names...) }

// Name returns the name of variable v.
func (jt *JunctionTree) Name(v int) string { return jt.names[v] }

// CliqueCount returns the number of cliques.
func (jt *JunctionTree) CliqueCount() int { return len(jt.cliques) }

// Clique returns a copy of clique c.
func (jt *JunctionTree) Clique(c int) []int { return append([]int(nil), jt.cliques[c]...) }

// Cliques returns copies of all cliques.
func (jt *JunctionTree) Cliques() [][]int {
	out := make([][]int, len(jt.cliques))
	for i := range jt.cliques {
		out[i] = jt.Clique(i)
	}

	return out
}

// Edges returns the tree edges, sorted.
func (jt *JunctionTree) Edges() []CliqueEdge { return append([]CliqueEdge(nil), jt.edges...) }

// Neighbors returns the cliques adjacent to c.
func (jt *JunctionTree) Neighbors(c int) []int { return append([]int(nil), jt.adj[c]...) }

// Separator returns the variables shared by adjacent cliques a and b.
func (jt *JunctionTree) Separator(a, b int) ([]int, error) {
	if a < 0 || a >= len(jt.cliques) || b < 0 || b >= len(jt.cliques) {
		return nil, fmt.Errorf("Separator: cliques %d, %d: %w", a, b, ErrCliqueOutOfRange)
	}
	if !contains(jt.adj[a], b) {
		return nil, fmt.Errorf("Separator: cliques %d, %d: %w", a, b, ErrNotAdjacent)
	}

	return intersect(jt.cliques[a], jt.cliques[b]), nil
}

// Separators returns the separator of every edge, in Edges order.
func (jt *JunctionTree) Separators() [][]int {
	out := make([][]int, len(jt.edges))
	for i, e := range jt.edges {
		out[i] = intersect(jt.cliques[e.A], jt.cliques[e.B])
	}

	return out
}

// Traversal returns a breadth-first order of all cliques, one component
// after another, each clique listed after its parent.
func (jt *JunctionTree) Traversal() []Visit {
	visits := make([]Visit, 0, len(jt.cliques))
	seen := make([]bool, len(jt.cliques))
	for root := range jt.cliques {
		if seen[root] {
			continue
		}
		// The walk cannot fail: root is in range and OnVisit never errors.
		_, _ = bfs.BFS(jt.adj, root, bfs.WithOnVisit(func(v, parent, _ int) error {
			seen[v] = true
			visits = append(visits, Visit{Clique: v, Parent: parent})
			return nil
		}))
	}

	return visits
}

// Marginal restricts the tree to the variables indices, renumbered in the
// given order. Cliques subsumed by another are dropped and the remaining
// ones reconnected by separator size, preferring edges of jt.
func (jt *JunctionTree) Marginal(indices []int) (*JunctionTree, error) {
	// 1) Renumbering.
	if len(indices) == 0 {
		return nil, fmt.Errorf("%s: empty index set: %w", methodMarginal, ErrInvalidIndices)
	}
	ids := make([]int, len(jt.names))
	for i := range ids {
		ids[i] = -1
	}
	names := make([]string, len(indices))
	for j, v := range indices {
		if v < 0 || v >= len(jt.names) || ids[v] >= 0 {
			return nil, fmt.Errorf("%s: index %d: %w", methodMarginal, v, ErrInvalidIndices)
		}
		ids[v] = j
		names[j] = jt.names[v]
	}

	// 2) Restricted cliques, keeping only maximal ones.
	var kept [][]int
	var origin []int
	for ci, c := range jt.cliques {
		var t []int
		for _, v := range c {
			if ids[v] >= 0 {
				t = append(t, ids[v])
			}
		}
		if len(t) == 0 {
			continue
		}
		t = normalize(t)
		subsumed := false
		for _, k := range kept {
			if isSubset(t, k) {
				subsumed = true
				break
			}
		}
		if subsumed {
			continue
		}
		w := 0
		for i, k := range kept {
			if !isSubset(k, t) {
				kept[w], origin[w] = k, origin[i]
				w++
			}
		}
		kept, origin = append(kept[:w], t), append(origin[:w], ci)
	}

	// 3) Reconnect: weight 2·|separator| + 1 for edges of the original tree.
	weight := func(a, b int) float64 {
		w := 2 * float64(len(intersect(kept[a], kept[b])))
		if contains(jt.adj[origin[a]], origin[b]) {
			w++
		}
		return w
	}

	return New(names, kept, spanningForest(kept, weight))
}

// String renders names, cliques and separators, one per line.
func (jt *JunctionTree) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", strings.Join(jt.names, ","))
	label := func(vs []int) string {
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = fmt.Sprintf("%d(%s)", v, jt.names[v])
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	for ci, c := range jt.cliques {
		fmt.Fprintf(&b, "%d : %s\n", ci, label(c))
	}
	seps := jt.Separators()
	for i, e := range jt.edges {
		fmt.Fprintf(&b, "%d-%d : %s\n", e.A, e.B, label(seps[i]))
	}

	return b.String()
}

// DOT renders cliques as boxes and separators as edge labels.
func (jt *JunctionTree) DOT() string {
	var b strings.Builder
	b.WriteString("graph \"junction_tree\" {\n  node [shape = box];\n")
	nameSet := func(vs []int) string {
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = jt.names[v]
		}
		return strings.Join(parts, ",")
	}
	for ci, c := range jt.cliques {
		fmt.Fprintf(&b, "  c%d [label=%q];\n", ci, "{"+nameSet(c)+"}")
	}
	for _, e := range jt.edges {
		fmt.Fprintf(&b, "  c%d -- c%d [label=%q];\n", e.A, e.B, nameSet(intersect(jt.cliques[e.A], jt.cliques[e.B])))
	}
	b.WriteString("}\n")

	return b.String()
}

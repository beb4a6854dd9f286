// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/copulanet/dfs"
)

const (
	methodNewNamedDAG   = "NewNamedDAG"
	methodParseNamedDAG = "ParseNamedDAG"
)

// NamedDAG is an immutable directed acyclic graph over named nodes.
// It is shared read-only by learners, factories and networks.
type NamedDAG struct {
	names    []string
	index    map[string]int
	parents  [][]int
	children [][]int
	order    []int
}

// NewNamedDAG validates names and arcs and builds the DAG.
// Duplicate arcs are merged. Fails with ErrNodeOutOfRange, ErrSelfLoop,
// ErrEmptyName, ErrDuplicateName or ErrCycleDetected.
func NewNamedDAG(names []string, arcs []Arc) (*NamedDAG, error) {
	// 1. Validate names
	index, err := indexNames(methodNewNamedDAG, names)
	if err != nil {
		return nil, err
	}
	n := len(names)

	// 2. Validate arcs and build parent/child sets
	parentSet := make([]map[int]struct{}, n)
	childSet := make([]map[int]struct{}, n)
	for i := 0; i < n; i++ {
		parentSet[i] = make(map[int]struct{})
		childSet[i] = make(map[int]struct{})
	}
	for _, a := range arcs {
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
			return nil, fmt.Errorf("%s: arc %d->%d with n=%d: %w", methodNewNamedDAG, a.From, a.To, n, ErrNodeOutOfRange)
		}
		if a.From == a.To {
			return nil, fmt.Errorf("%s: arc on %q: %w", methodNewNamedDAG, names[a.From], ErrSelfLoop)
		}
		parentSet[a.To][a.From] = struct{}{}
		childSet[a.From][a.To] = struct{}{}
	}
	d := &NamedDAG{
		names:    append([]string(nil), names...),
		index:    index,
		parents:  make([][]int, n),
		children: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		d.parents[i] = sortedKeys(parentSet[i])
		d.children[i] = sortedKeys(childSet[i])
	}

	// 3. Topological order doubles as the acyclicity check
	order, err := dfs.TopologicalSort(d)
	if err != nil {
		if cycle := dfs.FindCycle(d); cycle != nil {
			return nil, fmt.Errorf("%s: cycle %s: %w", methodNewNamedDAG, d.joinNames(cycle, "->"), ErrCycleDetected)
		}
		return nil, fmt.Errorf("%s: %w", methodNewNamedDAG, ErrCycleDetected)
	}
	d.order = order

	return d, nil
}

// NewEmptyDAG returns the DAG without arcs over names.
func NewEmptyDAG(names []string) (*NamedDAG, error) {
	return NewNamedDAG(names, nil)
}

// NewNamedDAGFromParents builds a DAG from per-node parent lists.
func NewNamedDAGFromParents(names []string, parents [][]int) (*NamedDAG, error) {
	if len(parents) != len(names) {
		return nil, fmt.Errorf("%s: %d parent lists for %d names: %w",
			methodNewNamedDAG, len(parents), len(names), ErrNodeOutOfRange)
	}
	var arcs []Arc
	for v, ps := range parents {
		for _, p := range ps {
			arcs = append(arcs, Arc{From: p, To: v})
		}
	}

	return NewNamedDAG(names, arcs)
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)

	return out
}

// Order returns the number of nodes.
func (d *NamedDAG) Order() int { return len(d.names) }

// Size is an alias of Order.
func (d *NamedDAG) Size() int { return len(d.names) }

// Names returns a copy of the node names.
func (d *NamedDAG) Names() []string { return append([]string(nil), d.names...) }

// Name returns the name of node v.
func (d *NamedDAG) Name(v int) string { return d.names[v] }

// Index returns the index of the named node.
func (d *NamedDAG) Index(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// Parents returns a copy of the sorted parents of v.
func (d *NamedDAG) Parents(v int) []int { return append([]int(nil), d.parents[v]...) }

// Children returns a copy of the sorted children of v.
func (d *NamedDAG) Children(v int) []int { return append([]int(nil), d.children[v]...) }

// Successors implements dfs.Digraph.
func (d *NamedDAG) Successors(v int) []int { return d.children[v] }

// Neighbors implements bfs.Graph (parents then children).
func (d *NamedDAG) Neighbors(v int) []int {
	out := make([]int, 0, len(d.parents[v])+len(d.children[v]))
	out = append(out, d.parents[v]...)
	return append(out, d.children[v]...)
}

// InDegree returns the number of parents of v.
func (d *NamedDAG) InDegree(v int) int { return len(d.parents[v]) }

// OutDegree returns the number of children of v.
func (d *NamedDAG) OutDegree(v int) int { return len(d.children[v]) }

// HasArc reports whether u→v is an arc.
func (d *NamedDAG) HasArc(u, v int) bool {
	i := sort.SearchInts(d.parents[v], u)
	return i < len(d.parents[v]) && d.parents[v][i] == u
}

// TopologicalOrder returns a copy of a parent-before-child node order.
func (d *NamedDAG) TopologicalOrder() []int { return append([]int(nil), d.order...) }

// Arcs returns every arc sorted by (From, To).
func (d *NamedDAG) Arcs() []Arc {
	var arcs []Arc
	for u, cs := range d.children {
		for _, v := range cs {
			arcs = append(arcs, Arc{From: u, To: v})
		}
	}

	return arcs
}

// NumArcs returns the number of arcs.
func (d *NamedDAG) NumArcs() int {
	c := 0
	for _, cs := range d.children {
		c += len(cs)
	}

	return c
}

// MaxInDegree returns the largest parent count.
func (d *NamedDAG) MaxInDegree() int {
	m := 0
	for _, ps := range d.parents {
		if len(ps) > m {
			m = len(ps)
		}
	}

	return m
}

// ToPDAG returns a PDAG holding the same arcs.
func (d *NamedDAG) ToPDAG() *PDAG {
	g, _ := NewPDAG(d.names)
	for u, cs := range d.children {
		for _, v := range cs {
			g.marks[u][v], g.marks[v][u] = Out, In
		}
	}

	return g
}

// Equal reports whether both DAGs have the same names and arcs.
func (d *NamedDAG) Equal(o *NamedDAG) bool {
	if o == nil || len(d.names) != len(o.names) {
		return false
	}
	for i := range d.names {
		if d.names[i] != o.names[i] || len(d.parents[i]) != len(o.parents[i]) {
			return false
		}
		for j := range d.parents[i] {
			if d.parents[i][j] != o.parents[i][j] {
				return false
			}
		}
	}

	return true
}

func (d *NamedDAG) joinNames(vs []int, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = d.names[v]
	}

	return strings.Join(parts, sep)
}

// String renders the DAG as a textual edge list: one "A->B" line per arc,
// isolated nodes on their own line, in topological order of the tail.
func (d *NamedDAG) String() string {
	var sb strings.Builder
	for _, u := range d.order {
		if len(d.parents[u]) == 0 && len(d.children[u]) == 0 {
			sb.WriteString(d.names[u])
			sb.WriteByte('\n')
			continue
		}
		for _, v := range d.children[u] {
			fmt.Fprintf(&sb, "%s->%s\n", d.names[u], d.names[v])
		}
	}

	return sb.String()
}

// Prototype renders the DAG in the compact form read by ParseNamedDAG.
func (d *NamedDAG) Prototype() string {
	var parts []string
	for _, u := range d.order {
		if len(d.parents[u]) == 0 && len(d.children[u]) == 0 {
			parts = append(parts, d.names[u])
		}
		for _, v := range d.children[u] {
			parts = append(parts, d.names[u]+"->"+d.names[v])
		}
	}

	return strings.Join(parts, ";")
}

// ParseNamedDAG reads a compact prototype such as "A->B->C;E->A;D".
// Statements are separated by ';' or newlines, chains by "->", and a
// statement without arrows declares an isolated node. Nodes are indexed in
// order of first appearance.
func ParseNamedDAG(proto string) (*NamedDAG, error) {
	var (
		names []string
		index = map[string]int{}
		arcs  []Arc
	)
	id := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(names)
		names = append(names, name)
		return index[name]
	}

	stmts := strings.FieldsFunc(proto, func(r rune) bool { return r == ';' || r == '\n' })
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		chain := strings.Split(stmt, "->")
		prev := -1
		for _, raw := range chain {
			name := strings.TrimSpace(raw)
			if name == "" {
				return nil, fmt.Errorf("%s: statement %q: %w", methodParseNamedDAG, stmt, ErrMalformedPrototype)
			}
			cur := id(name)
			if prev >= 0 {
				arcs = append(arcs, Arc{From: prev, To: cur})
			}
			prev = cur
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: empty prototype: %w", methodParseNamedDAG, ErrMalformedPrototype)
	}

	return NewNamedDAG(names, arcs)
}

// Reindex returns the DAG with nodes renamed and reordered to match names.
// Every name of d must appear exactly once in names.
func (d *NamedDAG) Reindex(names []string) (*NamedDAG, error) {
	if len(names) != len(d.names) {
		return nil, fmt.Errorf("%s: %d names for %d nodes: %w", methodNewNamedDAG, len(names), len(d.names), ErrUnknownName)
	}
	perm := make([]int, len(d.names)) // old index -> new index
	for newIdx, name := range names {
		old, ok := d.index[name]
		if !ok {
			return nil, fmt.Errorf("%s: %q: %w", methodNewNamedDAG, name, ErrUnknownName)
		}
		perm[old] = newIdx
	}
	arcs := make([]Arc, 0, d.NumArcs())
	for _, a := range d.Arcs() {
		arcs = append(arcs, Arc{From: perm[a.From], To: perm[a.To]})
	}

	return NewNamedDAG(names, arcs)
}

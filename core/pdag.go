// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/copulanet/dfs"
)

const (
	methodNewPDAG           = "NewPDAG"
	methodAddUndirectedEdge = "AddUndirectedEdge"
	methodAddArc            = "AddArc"
	methodRemoveEdge        = "RemoveEdge"
	methodOrientEdge        = "OrientEdge"
	methodToNamedDAG        = "ToNamedDAG"
)

// PDAG is a partially directed graph over named nodes. It serves as the
// skeleton (no arcs), the partially oriented result of a learner, and the
// mutable workspace of orientation passes. It is not safe for concurrent
// mutation; concurrent reads are fine.
type PDAG struct {
	names []string
	index map[string]int
	marks [][]Mark
}

// NewPDAG returns an edgeless PDAG over the given node names.
func NewPDAG(names []string) (*PDAG, error) {
	index, err := indexNames(methodNewPDAG, names)
	if err != nil {
		return nil, err
	}
	n := len(names)
	cells := make([]Mark, n*n)
	marks := make([][]Mark, n)
	for i := range marks {
		marks[i] = cells[i*n : (i+1)*n : (i+1)*n]
	}

	return &PDAG{names: append([]string(nil), names...), index: index, marks: marks}, nil
}

// NewCompletePDAG returns the complete undirected graph over names,
// the starting point of constraint-based skeleton search.
func NewCompletePDAG(names []string) (*PDAG, error) {
	g, err := NewPDAG(names)
	if err != nil {
		return nil, err
	}
	for u := range g.marks {
		for v := u + 1; v < len(g.marks); v++ {
			g.marks[u][v], g.marks[v][u] = Undirected, Undirected
		}
	}

	return g, nil
}

// Order returns the number of nodes.
func (g *PDAG) Order() int { return len(g.names) }

// Names returns a copy of the node names in index order.
func (g *PDAG) Names() []string { return append([]string(nil), g.names...) }

// Name returns the name of node v.
func (g *PDAG) Name(v int) string { return g.names[v] }

// Index returns the index of the named node.
func (g *PDAG) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

func (g *PDAG) checkPair(method string, u, v int) error {
	n := len(g.names)
	if u < 0 || u >= n || v < 0 || v >= n {
		return fmt.Errorf("%s: (%d,%d) with n=%d: %w", method, u, v, n, ErrNodeOutOfRange)
	}
	if u == v {
		return fmt.Errorf("%s: node %d: %w", method, u, ErrSelfLoop)
	}

	return nil
}

// AddUndirectedEdge inserts u–v.
func (g *PDAG) AddUndirectedEdge(u, v int) error {
	if err := g.checkPair(methodAddUndirectedEdge, u, v); err != nil {
		return err
	}
	if g.marks[u][v] != NoEdge {
		return fmt.Errorf("%s: %s-%s: %w", methodAddUndirectedEdge, g.names[u], g.names[v], ErrEdgeExists)
	}
	g.marks[u][v], g.marks[v][u] = Undirected, Undirected

	return nil
}

// AddArc inserts u→v, failing with ErrCycleDetected if v already reaches u.
func (g *PDAG) AddArc(u, v int) error {
	if err := g.checkPair(methodAddArc, u, v); err != nil {
		return err
	}
	if g.marks[u][v] != NoEdge {
		return fmt.Errorf("%s: %s->%s: %w", methodAddArc, g.names[u], g.names[v], ErrEdgeExists)
	}
	if dfs.Reachable(g, v, u) {
		return fmt.Errorf("%s: %s->%s: %w", methodAddArc, g.names[u], g.names[v], ErrCycleDetected)
	}
	g.marks[u][v], g.marks[v][u] = Out, In

	return nil
}

// RemoveEdge deletes the adjacency between u and v whatever its orientation.
func (g *PDAG) RemoveEdge(u, v int) error {
	if err := g.checkPair(methodRemoveEdge, u, v); err != nil {
		return err
	}
	if g.marks[u][v] == NoEdge {
		return fmt.Errorf("%s: %s,%s: %w", methodRemoveEdge, g.names[u], g.names[v], ErrEdgeNotFound)
	}
	g.marks[u][v], g.marks[v][u] = NoEdge, NoEdge

	return nil
}

// OrientEdge turns the undirected edge u–v into u→v.
// Orienting an arc that is already u→v is a no-op. It fails with
// ErrInvalidOrientation when u and v are not adjacent, when the edge is
// already v→u, or when u→v would close a directed cycle (the latter also
// matches ErrCycleDetected).
func (g *PDAG) OrientEdge(u, v int) error {
	if err := g.checkPair(methodOrientEdge, u, v); err != nil {
		return err
	}
	switch g.marks[u][v] {
	case Out:
		return nil
	case NoEdge:
		return fmt.Errorf("%s: %s,%s not adjacent: %w", methodOrientEdge, g.names[u], g.names[v], ErrInvalidOrientation)
	case In:
		return fmt.Errorf("%s: %s<-%s already oriented: %w", methodOrientEdge, g.names[u], g.names[v], ErrInvalidOrientation)
	}
	if dfs.Reachable(g, v, u) {
		return fmt.Errorf("%s: %s->%s: %w: %w", methodOrientEdge, g.names[u], g.names[v], ErrInvalidOrientation, ErrCycleDetected)
	}
	g.marks[u][v], g.marks[v][u] = Out, In

	return nil
}

// HasDirectedPath reports whether a path of arcs leads from u to v.
// Undirected edges are not followed.
func (g *PDAG) HasDirectedPath(u, v int) bool { return dfs.Reachable(g, u, v) }

// Mark returns the adjacency mark of (u, v) seen from u.
func (g *PDAG) Mark(u, v int) Mark { return g.marks[u][v] }

// Adjacent reports whether u and v share any edge.
func (g *PDAG) Adjacent(u, v int) bool { return g.marks[u][v] != NoEdge }

// HasUndirectedEdge reports whether u–v is present.
func (g *PDAG) HasUndirectedEdge(u, v int) bool { return g.marks[u][v] == Undirected }

// HasArc reports whether u→v is present.
func (g *PDAG) HasArc(u, v int) bool { return g.marks[u][v] == Out }

// collect lists, in ascending order, the nodes w whose mark from v equals m
// (any non-empty mark when m == NoEdge).
func (g *PDAG) collect(v int, m Mark) []int {
	var out []int
	for w, mk := range g.marks[v] {
		if mk == NoEdge {
			continue
		}
		if m == NoEdge || mk == m {
			out = append(out, w)
		}
	}

	return out
}

// Neighbors returns every node adjacent to v, ascending.
func (g *PDAG) Neighbors(v int) []int { return g.collect(v, NoEdge) }

// UndirectedNeighbors returns the nodes w with v–w, ascending.
func (g *PDAG) UndirectedNeighbors(v int) []int { return g.collect(v, Undirected) }

// Parents returns the nodes w with w→v, ascending.
func (g *PDAG) Parents(v int) []int { return g.collect(v, In) }

// Children returns the nodes w with v→w, ascending.
func (g *PDAG) Children(v int) []int { return g.collect(v, Out) }

// Successors implements dfs.Digraph over the directed part.
func (g *PDAG) Successors(v int) []int { return g.Children(v) }

// Degree returns the number of edges incident to v.
func (g *PDAG) Degree(v int) int {
	d := 0
	for _, mk := range g.marks[v] {
		if mk != NoEdge {
			d++
		}
	}

	return d
}

// Edges returns every edge: undirected ones once with From < To, arcs as
// From→To; sorted by (From, To) of the lower endpoint pair.
func (g *PDAG) Edges() []Edge {
	var edges []Edge
	for u := range g.marks {
		for v := u + 1; v < len(g.marks); v++ {
			switch g.marks[u][v] {
			case Undirected:
				edges = append(edges, Edge{From: u, To: v})
			case Out:
				edges = append(edges, Edge{From: u, To: v, Directed: true})
			case In:
				edges = append(edges, Edge{From: v, To: u, Directed: true})
			}
		}
	}

	return edges
}

// EdgeCount returns the number of adjacencies.
func (g *PDAG) EdgeCount() int {
	c := 0
	for u := range g.marks {
		for v := u + 1; v < len(g.marks); v++ {
			if g.marks[u][v] != NoEdge {
				c++
			}
		}
	}

	return c
}

// UndirectedCount returns the number of still unoriented edges.
func (g *PDAG) UndirectedCount() int {
	c := 0
	for u := range g.marks {
		for v := u + 1; v < len(g.marks); v++ {
			if g.marks[u][v] == Undirected {
				c++
			}
		}
	}

	return c
}

// Clone returns a deep copy.
func (g *PDAG) Clone() *PDAG {
	c, _ := NewPDAG(g.names)
	for u := range g.marks {
		copy(c.marks[u], g.marks[u])
	}

	return c
}

// Skeleton returns a copy with every arc replaced by an undirected edge.
func (g *PDAG) Skeleton() *PDAG {
	c, _ := NewPDAG(g.names)
	for u := range g.marks {
		for v, mk := range g.marks[u] {
			if mk != NoEdge {
				c.marks[u][v] = Undirected
			}
		}
	}

	return c
}

// ToNamedDAG converts a fully oriented PDAG. It fails with
// ErrInvalidOrientation while undirected edges remain.
func (g *PDAG) ToNamedDAG() (*NamedDAG, error) {
	var arcs []Arc
	for _, e := range g.Edges() {
		if !e.Directed {
			return nil, fmt.Errorf("%s: %s-%s still undirected: %w",
				methodToNamedDAG, g.names[e.From], g.names[e.To], ErrInvalidOrientation)
		}
		arcs = append(arcs, Arc{From: e.From, To: e.To})
	}

	return NewNamedDAG(g.names, arcs)
}

// String renders the PDAG as a textual edge list, one edge per line:
// "A->B" for arcs and "A--B" for undirected edges. Isolated nodes are
// listed on their own.
func (g *PDAG) String() string {
	var sb strings.Builder
	edges := g.Edges()
	touched := make([]bool, len(g.names))
	for _, e := range edges {
		touched[e.From], touched[e.To] = true, true
	}
	for v, ok := range touched {
		if !ok {
			sb.WriteString(g.names[v])
			sb.WriteByte('\n')
		}
	}
	for _, e := range edges {
		sep := "--"
		if e.Directed {
			sep = "->"
		}
		fmt.Fprintf(&sb, "%s%s%s\n", g.names[e.From], sep, g.names[e.To])
	}

	return sb.String()
}

// SPDX-License-Identifier: MIT

package core

import (
	"fmt"

	"github.com/katalvlaran/copulanet/dfs"
)

const (
	methodOrientCollider = "OrientCollider"
	methodExtension      = "Extension"
)

// Triple is a path X – Z – Y with X < Y.
type Triple struct {
	X, Z, Y int
}

// UnshieldedTriples lists every X – Z – Y where X and Y are not adjacent,
// whatever the orientation of the two edges, ordered by (Z, X, Y).
func (g *PDAG) UnshieldedTriples() []Triple {
	var out []Triple
	for z := range g.marks {
		nb := g.Neighbors(z)
		for i, x := range nb {
			for _, y := range nb[i+1:] {
				if !g.Adjacent(x, y) {
					out = append(out, Triple{X: x, Z: z, Y: y})
				}
			}
		}
	}

	return out
}

// OrientCollider orients x→z←y atomically: either both arcs are set or the
// graph is left untouched. It fails with ErrInvalidOrientation when either
// edge is missing or already points away from z, or when an arc would
// close a cycle.
func (g *PDAG) OrientCollider(x, z, y int) error {
	if err := g.checkPair(methodOrientCollider, x, z); err != nil {
		return err
	}
	if err := g.checkPair(methodOrientCollider, y, z); err != nil {
		return err
	}
	for _, u := range [2]int{x, y} {
		if mk := g.marks[u][z]; mk == NoEdge || mk == In {
			return fmt.Errorf("%s: %s->%s<-%s: %w", methodOrientCollider,
				g.names[x], g.names[z], g.names[y], ErrInvalidOrientation)
		}
	}
	saved := [2][2]Mark{{g.marks[x][z], g.marks[z][x]}, {g.marks[y][z], g.marks[z][y]}}
	if err := g.OrientEdge(x, z); err != nil {
		return err
	}
	if err := g.OrientEdge(y, z); err != nil {
		g.marks[x][z], g.marks[z][x] = saved[0][0], saved[0][1]
		g.marks[y][z], g.marks[z][y] = saved[1][0], saved[1][1]
		return err
	}

	return nil
}

// ApplyMeekRules propagates orientations until a fixpoint and returns the
// number of edges it oriented:
//
//	R1: a→b – c, a and c not adjacent          ⇒ b→c
//	R2: a→b→c and a – c                          ⇒ a→c
//	R3: a – b, a – c→b, a – d→b, c, d not adjacent ⇒ a→b
//
// None of the rules creates a new collider or a directed cycle.
func (g *PDAG) ApplyMeekRules() int {
	oriented := 0
	for changed := true; changed; {
		changed = false
		for u := range g.marks {
			for v := range g.marks {
				if g.marks[u][v] != Undirected {
					continue
				}
				if g.meekR1(u, v) || g.meekR2(u, v) || g.meekR3(u, v) {
					if g.OrientEdge(u, v) == nil {
						oriented++
						changed = true
					}
				}
			}
		}
	}

	return oriented
}

// meekR1: some a→u with a not adjacent to v.
func (g *PDAG) meekR1(u, v int) bool {
	for a, mk := range g.marks[u] {
		if mk == In && a != v && !g.Adjacent(a, v) {
			return true
		}
	}

	return false
}

// meekR2: some u→b→v.
func (g *PDAG) meekR2(u, v int) bool {
	for b, mk := range g.marks[u] {
		if mk == Out && g.marks[b][v] == Out {
			return true
		}
	}

	return false
}

// meekR3: two non-adjacent c, d with u – c→v and u – d→v.
func (g *PDAG) meekR3(u, v int) bool {
	var cs []int
	for c, mk := range g.marks[u] {
		if mk == Undirected && g.marks[c][v] == Out {
			cs = append(cs, c)
		}
	}
	for i, c := range cs {
		for _, d := range cs[i+1:] {
			if !g.Adjacent(c, d) {
				return true
			}
		}
	}

	return false
}

// Extension orients every remaining undirected edge and returns the DAG.
// It first tries the Dor–Tarsi construction, which adds neither cycles nor
// colliders; when the PDAG admits no such extension it orients each
// undirected edge along a topological order of the directed part, which
// still cannot close a cycle.
func (g *PDAG) Extension() (*NamedDAG, error) {
	if d, ok := g.dorTarsi(); ok {
		return d, nil
	}
	order, err := dfs.TopologicalSort(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodExtension, err)
	}
	pos := make([]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	var arcs []Arc
	for _, e := range g.Edges() {
		switch {
		case e.Directed:
			arcs = append(arcs, Arc{From: e.From, To: e.To})
		case pos[e.From] < pos[e.To]:
			arcs = append(arcs, Arc{From: e.From, To: e.To})
		default:
			arcs = append(arcs, Arc{From: e.To, To: e.From})
		}
	}

	return NewNamedDAG(g.names, arcs)
}

// dorTarsi repeatedly removes a sink x whose undirected neighbors are
// adjacent to every other neighbor of x, orienting those edges into x.
func (g *PDAG) dorTarsi() (*NamedDAG, bool) {
	n := len(g.names)
	work := g.Clone()
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}
	var arcs []Arc
	for _, e := range g.Edges() {
		if e.Directed {
			arcs = append(arcs, Arc{From: e.From, To: e.To})
		}
	}

	for left := n; left > 0; left-- {
		x := -1
		for v := 0; v < n && x < 0; v++ {
			if alive[v] && work.removableSink(v, alive) {
				x = v
			}
		}
		if x < 0 {
			return nil, false
		}
		for y, mk := range work.marks[x] {
			if alive[y] && mk == Undirected {
				arcs = append(arcs, Arc{From: y, To: x})
			}
		}
		alive[x] = false
	}
	d, err := NewNamedDAG(g.names, arcs)

	return d, err == nil
}

// removableSink: no alive child, and every undirected alive neighbor of v is
// adjacent to all other alive neighbors of v.
func (g *PDAG) removableSink(v int, alive []bool) bool {
	var nb []int
	for u, mk := range g.marks[v] {
		if !alive[u] || mk == NoEdge {
			continue
		}
		if mk == Out {
			return false
		}
		nb = append(nb, u)
	}
	for _, y := range nb {
		if g.marks[v][y] != Undirected {
			continue
		}
		for _, z := range nb {
			if z != y && !g.Adjacent(y, z) {
				return false
			}
		}
	}

	return true
}

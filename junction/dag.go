package junction

import (
	"github.com/katalvlaran/copulanet/core"
)

// MoralGraph returns the sorted undirected adjacency lists of the moral
// graph of d: every arc becomes an edge and co-parents are married.
func MoralGraph(d *core.NamedDAG) [][]int {
	m := moralMatrix(d)
	adj := make([][]int, len(m))
	for u := range m {
		for v, ok := range m[u] {
			if ok {
				adj[u] = append(adj[u], v)
			}
		}
	}

	return adj
}

func moralMatrix(d *core.NamedDAG) [][]bool {
	n := d.Order()
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	link := func(u, v int) { m[u][v], m[v][u] = true, true }
	for v := 0; v < n; v++ {
		ps := d.Parents(v)
		for i, p := range ps {
			link(p, v)
			for _, q := range ps[i+1:] {
				link(p, q)
			}
		}
	}

	return m
}

// FromDAG builds the junction tree of d by moralization and min-fill
// triangulation. Ties in fill-in are broken by degree, then by index.
func FromDAG(d *core.NamedDAG) (*JunctionTree, error) {
	n := d.Order()
	g := moralMatrix(d)
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	// 1) Elimination: each step yields {v} ∪ alive neighbors of v.
	candidates := make([][]int, 0, n)
	for step := 0; step < n; step++ {
		best, bestFill, bestDeg := -1, 0, 0
		for v := 0; v < n; v++ {
			if !alive[v] {
				continue
			}
			nb := aliveNeighbors(g, alive, v)
			fill := 0
			for i, a := range nb {
				for _, b := range nb[i+1:] {
					if !g[a][b] {
						fill++
					}
				}
			}
			if best < 0 || fill < bestFill || (fill == bestFill && len(nb) < bestDeg) {
				best, bestFill, bestDeg = v, fill, len(nb)
			}
		}
		nb := aliveNeighbors(g, alive, best)
		for i, a := range nb {
			for _, b := range nb[i+1:] {
				g[a][b], g[b][a] = true, true
			}
		}
		candidates = append(candidates, normalize(append(nb, best)))
		alive[best] = false
	}

	// 2) Maximal cliques, first occurrence wins among equals.
	var cliques [][]int
	for i, c := range candidates {
		subsumed := false
		for j, o := range candidates {
			if i != j && isSubset(c, o) && (len(o) > len(c) || j < i) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			cliques = append(cliques, c)
		}
	}

	// 3) Spanning forest on separator size.
	weight := func(a, b int) float64 { return float64(len(intersect(cliques[a], cliques[b]))) }

	return New(d.Names(), cliques, spanningForest(cliques, weight))
}

func aliveNeighbors(g [][]bool, alive []bool, v int) []int {
	var nb []int
	for u, ok := range g[v] {
		if ok && alive[u] {
			nb = append(nb, u)
		}
	}

	return nb
}

package junction

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/copulanet/prim_kruskal"
)

// normalize returns a sorted copy of c without duplicates.
func normalize(c []int) []int {
	out := append([]int(nil), c...)
	sort.Ints(out)
	w := 0
	for i, v := range out {
		if i == 0 || v != out[w-1] {
			out[w] = v
			w++
		}
	}

	return out[:w]
}

// contains reports whether sorted s holds v.
func contains(s []int, v int) bool {
	i := sort.SearchInts(s, v)
	return i < len(s) && s[i] == v
}

// intersect merges two sorted sets.
func intersect(a, b []int) []int {
	out := []int{}
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}

	return out
}

// isSubset reports a ⊆ b for sorted sets.
func isSubset(a, b []int) bool {
	return len(intersect(a, b)) == len(a)
}

func defaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("X%d", i)
	}

	return names
}

func checkNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("junction: name %d is empty: %w", i, ErrInvalidNames)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("junction: name %q repeated: %w", name, ErrInvalidNames)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// spanningForest links cliques by a maximum-weight spanning tree over all
// pairs and keeps the edges with a non-empty separator.
func spanningForest(cliques [][]int, weight func(a, b int) float64) []CliqueEdge {
	n := len(cliques)
	if n < 2 {
		return nil
	}
	candidates := make([]prim_kruskal.Edge, 0, n*(n-1)/2)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			candidates = append(candidates, prim_kruskal.Edge{U: a, V: b, Weight: weight(a, b)})
		}
	}
	// The candidate graph is complete, hence connected.
	tree, _, _ := prim_kruskal.MaximumSpanningTree(n, candidates)

	var edges []CliqueEdge
	for _, e := range tree {
		if len(intersect(cliques[e.U], cliques[e.V])) > 0 {
			edges = append(edges, CliqueEdge{A: min(e.U, e.V), B: max(e.U, e.V)})
		}
	}

	return edges
}

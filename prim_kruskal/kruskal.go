package prim_kruskal

import (
	"sort"
)

// Kruskal computes a minimum spanning tree of n nodes.
func Kruskal(n int, edges []Edge) ([]Edge, float64, error) {
	return kruskal(n, edges, false)
}

// MaximumSpanningTree computes a maximum-weight spanning tree with Kruskal.
func MaximumSpanningTree(n int, edges []Edge) ([]Edge, float64, error) {
	return kruskal(n, edges, true)
}

// kruskal uses a disjoint-set forest with path compression and union by rank.
//
// Steps:
//  1. Validate endpoints; n == 0 → ErrDisconnected, n == 1 → empty tree.
//  2. Drop self-loops and stable-sort by weight (descending when maximum).
//  3. Scan edges, joining distinct components until n-1 edges are kept.
//  4. Fewer than n-1 edges → ErrDisconnected.
func kruskal(n int, edges []Edge, maximum bool) ([]Edge, float64, error) {
	// 1. Validate
	if err := validate(n, edges); err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, ErrDisconnected
	}
	if n == 1 {
		return []Edge{}, 0, nil
	}

	// 2. Filter and sort
	sorted := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.U != e.V {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if maximum {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Weight < sorted[j].Weight
	})

	// 3. Disjoint sets
	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}

	var (
		tree  []Edge
		total float64
	)
	for _, e := range sorted {
		ru, rv := find(e.U), find(e.V)
		if ru == rv {
			continue
		}
		// Union by rank: attach the shallower root under the deeper one.
		if rank[ru] < rank[rv] {
			parent[ru] = rv
		} else {
			parent[rv] = ru
			if rank[ru] == rank[rv] {
				rank[ru]++
			}
		}
		tree = append(tree, e)
		total += e.Weight
		if len(tree) == n-1 {
			break
		}
	}

	// 4. Connectivity
	if len(tree) < n-1 {
		return nil, 0, ErrDisconnected
	}

	return tree, total, nil
}

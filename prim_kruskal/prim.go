package prim_kruskal

import (
	"container/heap"
)

// Prim computes a minimum spanning tree grown from root.
func Prim(n int, edges []Edge, root int) ([]Edge, float64, error) {
	return prim(n, edges, root, false)
}

// candidate is a heap entry: an edge leaving the tree, with its input rank
// for deterministic tie-breaking.
type candidate struct {
	edge Edge
	to   int
	seq  int
}

type candidateHeap struct {
	items   []candidate
	maximum bool
}

func (h candidateHeap) Len() int { return len(h.items) }
func (h candidateHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.edge.Weight != b.edge.Weight {
		if h.maximum {
			return a.edge.Weight > b.edge.Weight
		}
		return a.edge.Weight < b.edge.Weight
	}
	return a.seq < b.seq
}
func (h candidateHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidateHeap) Push(x any)   { h.items = append(h.items, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last
}

// prim grows the tree from root, always taking the best edge that leaves it.
func prim(n int, edges []Edge, root int, maximum bool) ([]Edge, float64, error) {
	// 1. Validate
	if err := validate(n, edges); err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, ErrDisconnected
	}
	if root < 0 || root >= n {
		return nil, 0, ErrRootOutOfRange
	}
	if n == 1 {
		return []Edge{}, 0, nil
	}

	// 2. Incidence lists remember the input position of each edge
	type incident struct {
		seq int
		to  int
	}
	adj := make([][]incident, n)
	for i, e := range edges {
		if e.U == e.V {
			continue
		}
		adj[e.U] = append(adj[e.U], incident{seq: i, to: e.V})
		adj[e.V] = append(adj[e.V], incident{seq: i, to: e.U})
	}

	// 3. Grow from root
	visited := make([]bool, n)
	h := &candidateHeap{maximum: maximum}
	push := func(v int) {
		visited[v] = true
		for _, inc := range adj[v] {
			if !visited[inc.to] {
				heap.Push(h, candidate{edge: edges[inc.seq], to: inc.to, seq: inc.seq})
			}
		}
	}
	push(root)

	var (
		tree  []Edge
		total float64
	)
	for h.Len() > 0 && len(tree) < n-1 {
		c := heap.Pop(h).(candidate)
		if visited[c.to] {
			continue
		}
		tree = append(tree, c.edge)
		total += c.edge.Weight
		push(c.to)
	}

	// 4. Connectivity
	if len(tree) < n-1 {
		return nil, 0, ErrDisconnected
	}

	return tree, total, nil
}

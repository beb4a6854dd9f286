package dfs

import "fmt"

const methodTopologicalSort = "TopologicalSort"

// topoSorter holds the state of one topological sort traversal.
type topoSorter struct {
	graph Digraph
	state []int // White/Gray/Black per node
	order []int // post-order sequence
}

// TopologicalSort computes a topological ordering of all nodes of g.
//
// Roots and successors are explored in descending index order so that the
// reversed post-order lists unrelated nodes in ascending index order; a
// graph without arcs therefore sorts to 0,1,...,n-1.
//
// Returns ErrGraphNil for a nil graph, ErrNodeOutOfRange for a successor
// outside the graph and ErrCycleDetected when no order exists.
func TopologicalSort(g Digraph) ([]int, error) {
	// 1. Validate graph
	if g == nil {
		return nil, ErrGraphNil
	}
	n := g.Order()
	// 2. Initialize sorter state (all nodes White)
	sorter := &topoSorter{
		graph: g,
		state: make([]int, n),
		order: make([]int, 0, n),
	}
	// 3. Drive DFS from every unvisited node, highest index first
	for v := n - 1; v >= 0; v-- {
		if sorter.state[v] != White {
			continue
		}
		if err := sorter.visit(v); err != nil {
			return nil, fmt.Errorf("%s: %w", methodTopologicalSort, err)
		}
	}
	// 4. Reverse post-order
	for i, j := 0, len(sorter.order)-1; i < j; i, j = i+1, j-1 {
		sorter.order[i], sorter.order[j] = sorter.order[j], sorter.order[i]
	}

	return sorter.order, nil
}

// visit performs the recursive DFS from v, marking states and detecting back-edges.
func (t *topoSorter) visit(v int) error {
	// 1. Gray on entry means a back-edge closed a cycle
	if t.state[v] == Gray {
		return fmt.Errorf("node %d: %w", v, ErrCycleDetected)
	}
	if t.state[v] == Black {
		return nil
	}
	t.state[v] = Gray

	// 2. Explore successors, highest index first
	succ := t.graph.Successors(v)
	for i := len(succ) - 1; i >= 0; i-- {
		w := succ[i]
		if w < 0 || w >= len(t.state) {
			return fmt.Errorf("arc %d->%d: %w", v, w, ErrNodeOutOfRange)
		}
		if err := t.visit(w); err != nil {
			return err
		}
	}

	// 3. Fully explored
	t.state[v] = Black
	t.order = append(t.order, v)

	return nil
}

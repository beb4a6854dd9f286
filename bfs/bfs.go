package bfs

import (
	"fmt"
)

// queueItem pairs a node with its BFS depth.
type queueItem struct {
	v     int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph Graph
	opts  BFSOptions
	queue []queueItem
	res   *BFSResult
}

// BFS runs breadth-first search on g starting from start.
// Neighbors are enqueued in the order g returns them.
// Returns ErrGraphNil, ErrStartNodeNotFound, ErrOptionViolation, or any
// error returned by the OnVisit hook.
func BFS(g Graph, start int, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	n := g.Order()
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w: %d", ErrStartNodeNotFound, start)
	}

	w := &walker{
		graph: g,
		opts:  o,
		queue: make([]queueItem, 0, n),
		res: &BFSResult{
			Order:  make([]int, 0, n),
			Depth:  make([]int, n),
			Parent: make([]int, n),
		},
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = -1
		w.res.Parent[i] = -1
	}

	w.enqueue(start, 0, -1)

	return w.res, w.loop()
}

// enqueue marks v reached at depth d and records its parent.
func (w *walker) enqueue(v, d, parent int) {
	w.res.Depth[v] = d
	w.res.Parent[v] = parent
	w.queue = append(w.queue, queueItem{v: v, depth: d})
}

// loop processes the queue until empty or a hook error.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, item.v)
		if err := w.opts.OnVisit(item.v, w.res.Parent[item.v], item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.v, err)
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for _, nbr := range w.graph.Neighbors(item.v) {
			if nbr < 0 || nbr >= len(w.res.Depth) || w.res.Depth[nbr] >= 0 {
				continue
			}
			if !w.opts.FilterNeighbor(item.v, nbr) {
				continue
			}
			w.enqueue(nbr, next, item.v)
		}
	}

	return nil
}

// Components returns the connected components of g, each sorted ascending,
// listed by their smallest node.
func Components(g Graph) [][]int {
	if g == nil {
		return nil
	}
	n := g.Order()
	seen := make([]bool, n)
	var comps [][]int
	for v := 0; v < n; v++ {
		if seen[v] {
			continue
		}
		res, err := BFS(g, v)
		if err != nil {
			continue
		}
		comp := make([]int, 0, len(res.Order))
		for u := 0; u < n; u++ {
			if res.Reached(u) {
				seen[u] = true
				comp = append(comp, u)
			}
		}
		comps = append(comps, comp)
	}

	return comps
}

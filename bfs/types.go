package bfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartNodeNotFound is returned when the start index is out of range.
	ErrStartNodeNotFound = errors.New("bfs: start node not found")

	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Graph is the undirected adjacency view BFS needs: nodes are 0..Order()-1.
type Graph interface {
	Order() int
	Neighbors(v int) []int
}

// AdjacencyList is a Graph backed by a plain neighbor slice.
type AdjacencyList [][]int

// Order returns the number of nodes.
func (a AdjacencyList) Order() int { return len(a) }

// Neighbors returns the neighbors of v.
func (a AdjacencyList) Neighbors(v int) []int { return a[v] }

// Option configures BFS behavior via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation by BFS.
type Option func(*BFSOptions)

// BFSOptions holds parameters and callbacks to customize BFS execution.
type BFSOptions struct {
	// OnVisit is called when visiting a node with its parent (-1 for the
	// start). Returning an error aborts the traversal.
	OnVisit func(v, parent, depth int) error

	// MaxDepth, if > 0, stops exploring beyond this depth.
	MaxDepth int

	// FilterNeighbor can skip edges by returning false.
	FilterNeighbor func(curr, neighbor int) bool

	err error
}

// DefaultOptions returns options with no hooks, no depth limit and no filter.
func DefaultOptions() BFSOptions {
	return BFSOptions{
		OnVisit:        func(int, int, int) error { return nil },
		FilterNeighbor: func(int, int) bool { return true },
	}
}

// WithOnVisit registers a callback to run on visit.
func WithOnVisit(fn func(v, parent, depth int) error) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the search at the given depth.
//
//	d > 0: limit to depth d
//	d == 0: no depth limit
//	d < 0: ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *BFSOptions) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterNeighbor skips neighbors when fn returns false.
func WithFilterNeighbor(fn func(curr, neighbor int) bool) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// BFSResult holds the outcome of a traversal. Depth and Parent are indexed
// by node; unreached nodes have Depth -1, and the start has Parent -1.
type BFSResult struct {
	Order  []int
	Depth  []int
	Parent []int
}

// Reached reports whether v was visited.
func (r *BFSResult) Reached(v int) bool {
	return v >= 0 && v < len(r.Depth) && r.Depth[v] >= 0
}

// PathTo reconstructs the path from the start node to dest.
func (r *BFSResult) PathTo(dest int) ([]int, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("bfs: no path to %d", dest)
	}
	path := []int{}
	for cur := dest; cur >= 0; cur = r.Parent[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

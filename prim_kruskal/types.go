package prim_kruskal

import (
	"errors"
)

// ErrInvalidGraph indicates a negative node count, an out-of-range edge
// endpoint, or an unknown method.
var ErrInvalidGraph = errors.New("prim_kruskal: invalid graph")

// ErrRootOutOfRange indicates that the Prim root is not a node.
var ErrRootOutOfRange = errors.New("prim_kruskal: root out of range")

// ErrDisconnected indicates that no spanning tree covers all nodes.
var ErrDisconnected = errors.New("prim_kruskal: graph is disconnected")

// MethodPrim selects Prim's algorithm.
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's algorithm.
const MethodKruskal = "kruskal"

// Edge is an undirected weighted edge between node indices U and V.
type Edge struct {
	U, V   int
	Weight float64
}

// MSTOptions configures Compute.
type MSTOptions struct {
	// Method is MethodKruskal (default) or MethodPrim.
	Method string

	// Root is the start node of Prim. Unused by Kruskal.
	Root int

	// Maximum selects a maximum-weight spanning tree.
	Maximum bool
}

// Option configures MSTOptions.
type Option func(*MSTOptions)

// WithMethod sets the algorithm.
func WithMethod(m string) Option {
	return func(o *MSTOptions) { o.Method = m }
}

// WithRoot sets the Prim start node.
func WithRoot(root int) Option {
	return func(o *MSTOptions) { o.Root = root }
}

// WithMaximum selects a maximum-weight spanning tree.
func WithMaximum() Option {
	return func(o *MSTOptions) { o.Maximum = true }
}

// DefaultOptions returns Kruskal, root 0, minimum tree.
func DefaultOptions() MSTOptions {
	return MSTOptions{Method: MethodKruskal}
}

// Compute runs the configured algorithm on n nodes and the given edges.
func Compute(n int, edges []Edge, opts ...Option) ([]Edge, float64, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch o.Method {
	case MethodKruskal:
		return kruskal(n, edges, o.Maximum)
	case MethodPrim:
		return prim(n, edges, o.Root, o.Maximum)
	default:
		return nil, 0, ErrInvalidGraph
	}
}

// validate checks the node count and every endpoint.
func validate(n int, edges []Edge) error {
	if n < 0 {
		return ErrInvalidGraph
	}
	for _, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return ErrInvalidGraph
		}
	}

	return nil
}

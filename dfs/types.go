package dfs

import "errors"

// Visitation states used by the three-colour traversals.
const (
	White = iota // White: the node has not been visited yet.
	Gray         // Gray: the node is on the recursion stack.
	Black        // Black: the node and all its descendants are explored.
)

var (
	// ErrGraphNil is returned when a nil Digraph is passed in.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrCycleDetected indicates that a directed cycle was encountered.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrNodeOutOfRange indicates a node index outside [0, Order()).
	ErrNodeOutOfRange = errors.New("dfs: node index out of range")
)

// Digraph is the read-only view the traversals need: nodes are the integers
// 0..Order()-1 and Successors(v) lists the heads of the arcs leaving v.
type Digraph interface {
	Order() int
	Successors(v int) []int
}

// AdjacencyList is a Digraph backed by a plain successor slice.
// It is convenient in tests and for transient graphs (moral graphs, DAG
// views of a PDAG) that do not need the full core API.
type AdjacencyList [][]int

// Order returns the number of nodes.
func (a AdjacencyList) Order() int { return len(a) }

// Successors returns the heads of the arcs leaving v.
func (a AdjacencyList) Successors(v int) []int { return a[v] }

package junction

import (
	"errors"
)

// Sentinel errors for junction trees.
var (
	// ErrInvalidNames indicates empty or repeated variable names.
	ErrInvalidNames = errors.New("junction: invalid variable names")

	// ErrEmptyClique indicates a clique without variables.
	ErrEmptyClique = errors.New("junction: empty clique")

	// ErrCoverage indicates cliques that do not cover exactly 0..n-1.
	ErrCoverage = errors.New("junction: cliques do not cover the variables")

	// ErrCliqueOutOfRange indicates an edge endpoint that is not a clique.
	ErrCliqueOutOfRange = errors.New("junction: clique index out of range")

	// ErrNotATree indicates self-loops, repeated edges or cycles.
	ErrNotATree = errors.New("junction: cliques and edges do not form a forest")

	// ErrRunningIntersection indicates a variable whose cliques are not
	// connected in the tree.
	ErrRunningIntersection = errors.New("junction: running intersection property violated")

	// ErrInvalidIndices indicates marginal indices out of range or repeated.
	ErrInvalidIndices = errors.New("junction: invalid marginal indices")

	// ErrNotAdjacent indicates a separator query on non-adjacent cliques.
	ErrNotAdjacent = errors.New("junction: cliques are not adjacent")
)

// CliqueEdge links cliques A < B.
type CliqueEdge struct {
	A, B int
}

// Visit is one step of a tree traversal: Clique is reached from Parent
// (-1 for the root of a component).
type Visit struct {
	Clique int
	Parent int
}

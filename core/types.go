// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph operations.
var (
	// ErrCycleDetected indicates that an arc would close a directed cycle.
	ErrCycleDetected = errors.New("core: cycle detected")

	// ErrInvalidOrientation indicates a PDAG orientation that contradicts an
	// already oriented edge, targets a missing edge, or creates a cycle.
	ErrInvalidOrientation = errors.New("core: invalid orientation")

	// ErrNodeOutOfRange indicates a node index outside [0, n).
	ErrNodeOutOfRange = errors.New("core: node index out of range")

	// ErrSelfLoop indicates an edge from a node to itself.
	ErrSelfLoop = errors.New("core: self-loop not allowed")

	// ErrEdgeExists indicates the two nodes are already adjacent.
	ErrEdgeExists = errors.New("core: edge already exists")

	// ErrEdgeNotFound indicates the two nodes are not adjacent.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrEmptyName indicates an empty node name.
	ErrEmptyName = errors.New("core: node name is empty")

	// ErrDuplicateName indicates two nodes with the same name.
	ErrDuplicateName = errors.New("core: duplicate node name")

	// ErrUnknownName indicates a name that is not a node of the graph.
	ErrUnknownName = errors.New("core: unknown node name")

	// ErrMalformedPrototype indicates a DAG prototype string that cannot be parsed.
	ErrMalformedPrototype = errors.New("core: malformed DAG prototype")
)

// Mark tags one side of an adjacency in the PDAG arena.
type Mark uint8

const (
	// NoEdge means the pair is not adjacent.
	NoEdge Mark = iota
	// Undirected marks u–v on both sides.
	Undirected
	// Out marks u→v at marks[u][v].
	Out
	// In marks u→v at marks[v][u].
	In
)

// Edge is an adjacency of a PDAG. Undirected edges are reported with From < To.
type Edge struct {
	From, To int
	Directed bool
}

// Arc is a directed edge From→To of a NamedDAG.
type Arc struct {
	From, To int
}

// DefaultNames returns the names X0..X{n-1}.
func DefaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("X%d", i)
	}

	return names
}

// indexNames validates names and returns the name→index map.
func indexNames(method string, names []string) (map[string]int, error) {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%s: node %d: %w", method, i, ErrEmptyName)
		}
		if j, dup := index[name]; dup {
			return nil, fmt.Errorf("%s: %q at %d and %d: %w", method, name, j, i, ErrDuplicateName)
		}
		index[name] = i
	}

	return index, nil
}

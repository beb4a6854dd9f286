// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
)

const methodApply = "Apply"

// MoveKind is the type of a local change to a DAG.
type MoveKind uint8

const (
	// ArcAddition adds From→To.
	ArcAddition MoveKind = iota
	// ArcDeletion removes From→To.
	ArcDeletion
	// ArcReversal turns From→To into To→From.
	ArcReversal
)

// String returns the move kind name.
func (k MoveKind) String() string {
	switch k {
	case ArcAddition:
		return "add"
	case ArcDeletion:
		return "delete"
	case ArcReversal:
		return "reverse"
	default:
		return fmt.Sprintf("MoveKind(%d)", uint8(k))
	}
}

// Move is a local change of a DAG held in a PDAG with arcs only.
type Move struct {
	Kind     MoveKind
	From, To int
}

// Inverse returns the move that undoes m once m has been applied.
func (m Move) Inverse() Move {
	switch m.Kind {
	case ArcAddition:
		return Move{Kind: ArcDeletion, From: m.From, To: m.To}
	case ArcDeletion:
		return Move{Kind: ArcAddition, From: m.From, To: m.To}
	default:
		return Move{Kind: ArcReversal, From: m.To, To: m.From}
	}
}

// String renders "add(0->1)".
func (m Move) String() string { return fmt.Sprintf("%s(%d->%d)", m.Kind, m.From, m.To) }

// LegalMoves lists the moves that keep g acyclic and every in-degree at or
// below maxParents (negative means unbounded). Deletions are always legal.
// Pairs are scanned in index order; for an existing arc the reversal comes
// before the deletion. Undirected edges are ignored.
func (g *PDAG) LegalMoves(maxParents int) []Move {
	fits := func(v int) bool { return maxParents < 0 || len(g.Parents(v)) < maxParents }

	var moves []Move
	n := g.Order()
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == v {
				continue
			}
			switch g.marks[u][v] {
			case Out:
				if fits(u) && !g.pathAvoiding(u, v) {
					moves = append(moves, Move{Kind: ArcReversal, From: u, To: v})
				}
				moves = append(moves, Move{Kind: ArcDeletion, From: u, To: v})
			case NoEdge:
				if fits(v) && !g.HasDirectedPath(v, u) {
					moves = append(moves, Move{Kind: ArcAddition, From: u, To: v})
				}
			}
		}
	}

	return moves
}

// pathAvoiding reports whether u reaches v without the arc u→v itself.
func (g *PDAG) pathAvoiding(u, v int) bool {
	g.marks[u][v], g.marks[v][u] = NoEdge, NoEdge
	found := g.HasDirectedPath(u, v)
	g.marks[u][v], g.marks[v][u] = Out, In

	return found
}

// Apply performs m. A failed move leaves g unchanged.
func (g *PDAG) Apply(m Move) error {
	if err := g.checkPair(methodApply, m.From, m.To); err != nil {
		return err
	}
	switch m.Kind {
	case ArcAddition:
		return g.AddArc(m.From, m.To)
	case ArcDeletion:
		if !g.HasArc(m.From, m.To) {
			return fmt.Errorf("%s: %s: %w", methodApply, m, ErrEdgeNotFound)
		}
		return g.RemoveEdge(m.From, m.To)
	case ArcReversal:
		if !g.HasArc(m.From, m.To) {
			return fmt.Errorf("%s: %s: %w", methodApply, m, ErrEdgeNotFound)
		}
		if g.pathAvoiding(m.From, m.To) {
			return fmt.Errorf("%s: %s: %w", methodApply, m, ErrCycleDetected)
		}
		g.marks[m.From][m.To], g.marks[m.To][m.From] = In, Out

		return nil
	default:
		return fmt.Errorf("%s: %s: %w", methodApply, m, ErrInvalidOrientation)
	}
}

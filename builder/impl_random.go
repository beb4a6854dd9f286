// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// impl_random.go - stochastic DAG constructors.
//
// Determinism:
//   - RandomSparse draws one permutation, then one Bernoulli trial per
//     forward pair in (i asc, j asc) order of that permutation.
//   - RandomWalk draws one index per step from core.PDAG.LegalMoves, which
//     lists moves in a fixed order.

package builder

import (
	"fmt"

	"github.com/katalvlaran/copulanet/core"
)

const (
	methodRandomSparse = "RandomSparse"
	methodRandomWalk   = "RandomWalk"
)

// DefaultWalkSteps is the number of moves of a random restart.
const DefaultWalkSteps = 50

// RandomSparse adds π(i)→π(j), i<j, with probability p for a random node
// order π. Pairs whose head is full are skipped.
func RandomSparse(p float64) Constructor {
	return func(g *core.PDAG, cfg builderConfig) error {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s: p=%.6f not in [0,1]: %w", methodRandomSparse, p, ErrInvalidProbability)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomSparse, ErrNeedRandSource)
		}
		order := cfg.rng.Perm(g.Order())
		for i := 0; i < len(order); i++ {
			for j := i + 1; j < len(order); j++ {
				u, v := order[i], order[j]
				if cfg.rng.Float64() >= p || g.Adjacent(u, v) || !cfg.fits(len(g.Parents(v))) {
					continue
				}
				// Arcs from an earlier constructor may already lead v to u.
				if g.HasDirectedPath(v, u) {
					continue
				}
				if err := g.AddArc(u, v); err != nil {
					return fmt.Errorf("%s: %w", methodRandomSparse, err)
				}
			}
		}

		return nil
	}
}

// RandomWalk applies steps moves drawn uniformly from the legal moves of the
// current DAG.
func RandomWalk(steps int) Constructor {
	return func(g *core.PDAG, cfg builderConfig) error {
		if steps < 0 {
			return fmt.Errorf("%s: steps=%d: %w", methodRandomWalk, steps, ErrTooFewVertices)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomWalk, ErrNeedRandSource)
		}
		for s := 0; s < steps; s++ {
			moves := g.LegalMoves(cfg.maxParents)
			if len(moves) == 0 {
				return nil
			}
			if err := g.Apply(moves[cfg.rng.IntN(len(moves))]); err != nil {
				return fmt.Errorf("%s: step %d: %w", methodRandomWalk, s, err)
			}
		}

		return nil
	}
}

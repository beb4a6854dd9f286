// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// impl_topology.go - deterministic DAG shapes.
//
// Contract:
//   - Arcs already present are kept; a constructor fails with the core error
//     if its arc would duplicate or reverse one of them.
//   - In-degree bound violations fail with ErrConstructFailed.

package builder

import (
	"fmt"

	"github.com/katalvlaran/copulanet/core"
)

const (
	methodChain    = "Chain"
	methodStar     = "Star"
	methodCollider = "Collider"
	methodComplete = "Complete"
	minChainNodes  = 2
)

// Chain adds i→i+1 for every consecutive pair.
func Chain() Constructor {
	return func(g *core.PDAG, cfg builderConfig) error {
		if g.Order() < minChainNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodChain, g.Order(), minChainNodes, ErrTooFewVertices)
		}
		for i := 0; i+1 < g.Order(); i++ {
			if err := addArc(methodChain, g, cfg, i, i+1); err != nil {
				return err
			}
		}

		return nil
	}
}

// Star adds center→v for every other node v.
func Star(center int) Constructor {
	return func(g *core.PDAG, cfg builderConfig) error {
		if center < 0 || center >= g.Order() {
			return fmt.Errorf("%s: center %d with n=%d: %w", methodStar, center, g.Order(), ErrConstructFailed)
		}
		for v := 0; v < g.Order(); v++ {
			if v == center {
				continue
			}
			if err := addArc(methodStar, g, cfg, center, v); err != nil {
				return err
			}
		}

		return nil
	}
}

// Collider adds v→center for every other node v.
func Collider(center int) Constructor {
	return func(g *core.PDAG, cfg builderConfig) error {
		if center < 0 || center >= g.Order() {
			return fmt.Errorf("%s: center %d with n=%d: %w", methodCollider, center, g.Order(), ErrConstructFailed)
		}
		for v := 0; v < g.Order(); v++ {
			if v == center {
				continue
			}
			if err := addArc(methodCollider, g, cfg, v, center); err != nil {
				return err
			}
		}

		return nil
	}
}

// Complete adds i→j for all i<j, skipping arcs the in-degree bound forbids.
func Complete() Constructor {
	return func(g *core.PDAG, cfg builderConfig) error {
		for j := 1; j < g.Order(); j++ {
			for i := 0; i < j; i++ {
				if !cfg.fits(len(g.Parents(j))) {
					break
				}
				if g.Adjacent(i, j) {
					continue
				}
				if err := g.AddArc(i, j); err != nil {
					return fmt.Errorf("%s: %w", methodComplete, err)
				}
			}
		}

		return nil
	}
}

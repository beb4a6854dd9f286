// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// api.go - public entry points for the builder package.
//
// Design contract:
//   - One orchestrator: BuildDAG(n, bopts, cons...). Names the nodes,
//     resolves cfg, runs cons in order on an arcs-only core.PDAG.
//   - Functional options resolve into an immutable builderConfig.
//   - Determinism: same inputs, options, seed and constructor order give
//     identical DAGs.
//   - Safety: never panic; return sentinel errors from constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/copulanet/core"
)

const (
	methodBuildDAG = "BuildDAG"
	minDAGNodes    = 1
)

// Constructor adds arcs to g using the resolved builderConfig. It must keep
// g acyclic, honor cfg.maxParents and return sentinel errors.
type Constructor func(g *core.PDAG, cfg builderConfig) error

// BuildDAG creates n named nodes and applies all constructors in order.
// Any constructor error is wrapped with "BuildDAG: %w" and returned at once.
func BuildDAG(n int, bopts []BuilderOption, cons ...Constructor) (*core.NamedDAG, error) {
	if n < minDAGNodes {
		return nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodBuildDAG, n, minDAGNodes, ErrTooFewVertices)
	}
	cfg := newBuilderConfig(bopts...)

	names := make([]string, n)
	for i := range names {
		names[i] = cfg.idFn(i)
	}
	g, err := core.NewPDAG(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuildDAG, err)
	}

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("%s: nil constructor at index %d: %w", methodBuildDAG, i, ErrConstructFailed)
		}
		if err = fn(g, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", methodBuildDAG, err)
		}
	}

	return g.ToNamedDAG()
}

// CompletePDAG returns the complete undirected graph over n nodes named by
// the configured IDFn.
func CompletePDAG(n int, bopts ...BuilderOption) (*core.PDAG, error) {
	if n < minDAGNodes {
		return nil, fmt.Errorf("CompletePDAG: n=%d < min=%d: %w", n, minDAGNodes, ErrTooFewVertices)
	}
	cfg := newBuilderConfig(bopts...)
	names := make([]string, n)
	for i := range names {
		names[i] = cfg.idFn(i)
	}

	return core.NewCompletePDAG(names)
}

// addArc inserts u→v if the in-degree bound allows it.
func addArc(method string, g *core.PDAG, cfg builderConfig, u, v int) error {
	if !cfg.fits(len(g.Parents(v))) {
		return fmt.Errorf("%s: %s->%s exceeds max parents %d: %w",
			method, g.Name(u), g.Name(v), cfg.maxParents, ErrConstructFailed)
	}
	if err := g.AddArc(u, v); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	return nil
}

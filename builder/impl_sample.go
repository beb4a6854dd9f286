// SPDX-License-Identifier: MIT
// Package: copulanet/builder
//
// impl_sample.go - linear-Gaussian samples over a DAG.
//
// Model: X_v = Σ_{p ∈ pa(v)} w_pv·X_p + σ·ε_v, ε_v ~ N(0,1), nodes visited
// in topological order. Coefficients w are drawn once per arc, in
// NamedDAG.Arcs order, from the configured WeightFn; then rows are drawn.

package builder

import (
	"fmt"

	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/sample"
)

const methodLinearGaussianSample = "LinearGaussianSample"

// LinearGaussianSample draws n rows from the linear-Gaussian model of d.
// Requires an RNG (WithSeed or WithRand).
func LinearGaussianSample(d *core.NamedDAG, n int, bopts ...BuilderOption) (*sample.Sample, error) {
	if n < 1 {
		return nil, fmt.Errorf("%s: n=%d: %w", methodLinearGaussianSample, n, ErrBadSize)
	}
	cfg := newBuilderConfig(bopts...)
	if cfg.rng == nil {
		return nil, fmt.Errorf("%s: %w", methodLinearGaussianSample, ErrNeedRandSource)
	}

	// 1) Coefficients, one per arc.
	dim := d.Order()
	coef := make([][]float64, dim) // coef[v][k] multiplies the k-th parent of v
	parents := make([][]int, dim)
	for v := 0; v < dim; v++ {
		parents[v] = d.Parents(v)
		coef[v] = make([]float64, len(parents[v]))
	}
	for _, a := range d.Arcs() {
		for k, p := range parents[a.To] {
			if p == a.From {
				coef[a.To][k] = cfg.weightFn(cfg.rng)
			}
		}
	}

	// 2) Rows in topological order.
	order := d.TopologicalOrder()
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, dim)
		for _, v := range order {
			x := cfg.noiseSigma * cfg.rng.NormFloat64()
			for k, p := range parents[v] {
				x += coef[v][k] * row[p]
			}
			row[v] = x
		}
		rows[i] = row
	}

	return sample.New(d.Names(), rows)
}

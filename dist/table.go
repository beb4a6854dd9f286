package dist

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Quantile table resolution: one node every h/8 over the support.
const (
	tableNodesPerBandwidth = 8
	tableMinNodes          = 256
	tableMaxNodes          = 8192
)

// cdfTable holds a CDF and its density on an increasing grid.
type cdfTable struct {
	x, cdf, pdf []float64
}

func (k *KernelSmoothing) quantileTable() *cdfTable {
	k.once.Do(func() {
		lo, hi := k.Support()
		m := int(math.Ceil((hi-lo)/k.h*tableNodesPerBandwidth)) + 1
		m = max(tableMinNodes, min(tableMaxNodes, m))
		t := &cdfTable{
			x:   floats.Span(make([]float64, m), lo, hi),
			cdf: make([]float64, m),
			pdf: make([]float64, m),
		}
		for i, x := range t.x {
			t.cdf[i], t.pdf[i] = k.cdfPDF(x)
		}
		k.table = t
	})

	return k.table
}

// cdfPDF returns the CDF and the density at x in one pass over the points.
func (k *KernelSmoothing) cdfPDF(x float64) (float64, float64) {
	var c, f float64
	for _, p := range k.points {
		z := (x - p) / k.h
		c += distuv.UnitNormal.CDF(z)
		f += distuv.UnitNormal.Prob(z)
	}
	n := float64(len(k.points))

	return c / n, f / (n * k.h)
}

// invert solves H(s) = p on cell j, H being the cubic Hermite interpolant
// of the CDF with the density as slope, by safeguarded Newton steps on
// s ∈ [0,1]. Requires cdf[j] < p ≤ cdf[j+1].
func (t *cdfTable) invert(j int, p float64) float64 {
	x0, dx := t.x[j], t.x[j+1]-t.x[j]
	f0, f1 := t.cdf[j], t.cdf[j+1]
	m0, m1 := t.pdf[j]*dx, t.pdf[j+1]*dx
	hermite := func(s float64) (float64, float64) {
		s2, s3 := s*s, s*s*s
		v := (2*s3-3*s2+1)*f0 + (s3-2*s2+s)*m0 + (3*s2-2*s3)*f1 + (s3-s2)*m1
		d := (6*s2-6*s)*f0 + (3*s2-4*s+1)*m0 + (6*s-6*s2)*f1 + (3*s2-2*s)*m1
		return v, d
	}

	a, b, s := 0.0, 1.0, (p-f0)/(f1-f0)
	for iter := 0; iter < 60; iter++ {
		v, d := hermite(s)
		if v == p {
			break
		}
		if v < p {
			a = s
		} else {
			b = s
		}
		next := s - (v-p)/d
		if !(d > 0) || next <= a || next >= b {
			next = 0.5 * (a + b)
		}
		if math.Abs(next-s) < 1e-15 {
			s = next
			break
		}
		s = next
	}

	return x0 + s*dx
}

package dist_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/dist"
)

func normalDraws(n int, mu, sigma float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = mu + sigma*rng.NormFloat64()
	}

	return x
}

func TestNormal(t *testing.T) {
	n := dist.Normal{Mu: 1, Sigma: 2}
	assert.InDelta(t, 0.5, n.CDF(1), 1e-12)
	assert.InDelta(t, 1.0, n.Quantile(0.5), 1e-12)
	assert.InDelta(t, math.Log(n.PDF(0.3)), n.LogPDF(0.3), 1e-12)
	lo, hi := n.Support()
	assert.InDelta(t, 1-16.25, lo, 1e-12)
	assert.InDelta(t, 1+16.25, hi, 1e-12)
}

func TestFactories(t *testing.T) {
	x := normalDraws(4000, 3, 0.5, 1)

	d, err := dist.NormalFactory{}.Build(x)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, d.Mean(), 0.05)
	assert.InDelta(t, 0.5, d.(dist.Normal).Sigma, 0.05)

	u, err := dist.UniformFactory{}.Build([]float64{0, 1, 2, 3, 4})
	require.NoError(t, err)
	lo, hi := u.Support()
	assert.InDelta(t, -1.0, lo, 1e-12)
	assert.InDelta(t, 5.0, hi, 1e-12)

	k, err := dist.KernelSmoothingFactory{}.Build(x)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, k.Mean(), 0.05)
	assert.InDelta(t, 0.5, k.CDF(3), 0.03)
	assert.InDelta(t, 3.0, k.Quantile(0.5), 0.05)
	assert.InDelta(t, 0.3, k.CDF(k.Quantile(0.3)), 1e-6)

	for _, f := range []dist.Factory{dist.NormalFactory{}, dist.UniformFactory{}, dist.KernelSmoothingFactory{}} {
		_, err := f.Build([]float64{1})
		assert.ErrorIs(t, err, dist.ErrInsufficientData, f.Name())
		_, err = f.Build([]float64{2, 2, 2})
		assert.ErrorIs(t, err, dist.ErrDegenerateSupport, f.Name())
	}
}

func TestKernelSmoothing_Quantile(t *testing.T) {
	k, err := dist.KernelSmoothingFactory{}.Build(normalDraws(5000, -1, 2, 11))
	require.NoError(t, err)
	lo, hi := k.Support()
	assert.Equal(t, lo, k.Quantile(0))
	assert.Equal(t, hi, k.Quantile(1))

	prev := math.Inf(-1)
	for _, p := range []float64{1e-9, 1e-6, 0.001, 0.1, 0.3, 0.5, 0.7, 0.9, 0.999, 1 - 1e-6} {
		x := k.Quantile(p)
		assert.Greater(t, x, prev, "p=%g", p)
		assert.InDelta(t, p, k.CDF(x), 1e-7, "p=%g", p)
		prev = x
	}

	// Two separated modes leave a flat CDF between them.
	bimodal, err := dist.NewKernelSmoothing([]float64{-5, 5}, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, -5, bimodal.Quantile(0.25), 0.1)
	assert.InDelta(t, 5, bimodal.Quantile(0.75), 0.1)
	for _, p := range []float64{0.01, 0.25, 0.4999, 0.5001, 0.75, 0.99} {
		assert.InDelta(t, p, bimodal.CDF(bimodal.Quantile(p)), 1e-7, "p=%g", p)
	}
}

func TestKernelSmoothing_RandMoments(t *testing.T) {
	k, err := dist.NewKernelSmoothing([]float64{-1, 1}, 0.1)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(2, 3))
	sum := 0.0
	for i := 0; i < 5000; i++ {
		sum += k.Rand(rng)
	}
	assert.InDelta(t, 0.0, sum/5000, 0.05)
	// Density integrates to one.
	integral := 0.0
	for x := -3.0; x < 3.0; x += 0.001 {
		integral += k.PDF(x) * 0.001
	}
	assert.InDelta(t, 1.0, integral, 1e-3)

	_, err = dist.NewKernelSmoothing(nil, 1)
	assert.ErrorIs(t, err, dist.ErrInsufficientData)
	_, err = dist.NewKernelSmoothing([]float64{1}, 0)
	assert.ErrorIs(t, err, dist.ErrDegenerateSupport)
}

func TestDiscretize(t *testing.T) {
	u := dist.Uniform{Min: 0, Max: 1}
	p, err := dist.Discretize(u, []float64{0, 0.25, 0.5, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.5}, p, 1e-12)

	_, err = dist.Discretize(u, []float64{0.1, 1})
	assert.ErrorIs(t, err, dist.ErrDegenerateSupport)

	n := dist.Normal{Mu: 0, Sigma: 1}
	_, err = dist.Discretize(n, []float64{-2, 0, 2})
	assert.ErrorIs(t, err, dist.ErrDegenerateSupport)

	p, err = dist.Discretize(n, []float64{-2, 0, 2}, dist.WithTruncation())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, p, 1e-12)

	p, err = dist.Discretize(n, []float64{-9, 0, 9})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, p, 1e-9)

	_, err = dist.Discretize(u, []float64{0, 0})
	assert.ErrorIs(t, err, dist.ErrInvalidTicks)
	_, err = dist.Discretize(u, []float64{0})
	assert.ErrorIs(t, err, dist.ErrInvalidTicks)
}

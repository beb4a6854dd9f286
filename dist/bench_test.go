package dist_test

import (
	"testing"

	"github.com/katalvlaran/copulanet/dist"
)

// BenchmarkKernelSmoothing_Quantile measures quantiles of a 10,000 point
// estimate once its table is built.
func BenchmarkKernelSmoothing_Quantile(b *testing.B) {
	k, err := dist.KernelSmoothingFactory{}.Build(normalDraws(10000, 0, 1, 1))
	if err != nil {
		b.Fatal(err)
	}
	k.Quantile(0.5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = k.Quantile(float64(i%999+1) / 1000)
	}
}

// BenchmarkKernelSmoothing_CDF is the O(n) evaluation Quantile avoids.
func BenchmarkKernelSmoothing_CDF(b *testing.B) {
	k, err := dist.KernelSmoothingFactory{}.Build(normalDraws(10000, 0, 1, 1))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = k.CDF(float64(i%7) - 3)
	}
}

package pc_test

import (
	"testing"

	"github.com/katalvlaran/copulanet/builder"
	"github.com/katalvlaran/copulanet/oracle"
	"github.com/katalvlaran/copulanet/pc"
	"github.com/katalvlaran/copulanet/sample"
)

// randomSample draws n rows from a random sparse linear-Gaussian DAG.
func randomSample(b *testing.B, nodes, n int, p float64, seed uint64) *sample.Sample {
	b.Helper()
	opts := []builder.BuilderOption{builder.WithSeed(seed), builder.WithMaxParents(3)}
	d, err := builder.BuildDAG(nodes, opts, builder.RandomSparse(p))
	if err != nil {
		b.Fatal(err)
	}
	s, err := builder.LinearGaussianSample(d, n, builder.WithSeed(seed+1), builder.WithUniformWeight(0.5, 1))
	if err != nil {
		b.Fatal(err)
	}

	return s
}

// BenchmarkLearnDAG measures the whole PC pipeline on random networks of
// increasing size, sequentially and with four workers.
func BenchmarkLearnDAG(b *testing.B) {
	cases := []struct {
		name    string
		nodes   int
		rows    int
		p       float64
		workers int
	}{
		{"Small", 8, 1000, 0.3, 1},
		{"Medium", 20, 2000, 0.15, 1},
		{"Medium4", 20, 2000, 0.15, 4},
	}
	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			s := randomSample(b, tc.nodes, tc.rows, tc.p, 42)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l, err := pc.New(s, pc.WithWorkers(tc.workers))
				if err != nil {
					b.Fatal(err)
				}
				if _, err = l.LearnDAG(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCMITest measures one cached and one uncached conditional test.
func BenchmarkCMITest(b *testing.B) {
	s := randomSample(b, 10, 2000, 0.3, 7)
	info, err := oracle.NewCorrectedMutualInformation(s, oracle.WithCMode(oracle.Gaussian), oracle.WithKMode(oracle.NoCorr))
	if err != nil {
		b.Fatal(err)
	}
	t, err := oracle.NewCMITest(info, 0.05)
	if err != nil {
		b.Fatal(err)
	}
	b.Run("Uncached", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			t.ClearCache()
			if _, err := t.Test(0, 1, []int{2, 3}); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("Cached", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := t.Test(0, 1, []int{2, 3}); err != nil {
				b.Fatal(err)
			}
		}
	})
}

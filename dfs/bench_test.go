package dfs_test

import (
	"testing"

	"github.com/katalvlaran/copulanet/dfs"
)

// BenchmarkTopologicalSort_Chain measures sorting a 10,000 node chain.
func BenchmarkTopologicalSort_Chain(b *testing.B) {
	const n = 10000
	g := make(dfs.AdjacencyList, n)
	for i := 0; i+1 < n; i++ {
		g[i] = []int{i + 1}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dfs.TopologicalSort(g); err != nil {
			b.Fatal(err)
		}
	}
}

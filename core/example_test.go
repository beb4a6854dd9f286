// SPDX-License-Identifier: MIT

package core_test

import (
	"fmt"

	"github.com/katalvlaran/copulanet/core"
)

// ExampleParseNamedDAG builds a chain and prints a topological order.
func ExampleParseNamedDAG() {
	d, err := core.ParseNamedDAG("C->B->A")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, v := range d.TopologicalOrder() {
		fmt.Print(d.Name(v), " ")
	}
	fmt.Println()
	// Output:
	// C B A
}

// ExamplePDAG_OrientEdge shows that orientation refuses to close a cycle.
func ExamplePDAG_OrientEdge() {
	g, _ := core.NewCompletePDAG([]string{"X", "Y", "Z"})
	_ = g.OrientEdge(0, 1)
	_ = g.OrientEdge(1, 2)
	err := g.OrientEdge(2, 0)
	fmt.Println(err != nil)
	fmt.Print(g)
	// Output:
	// true
	// X->Y
	// X--Z
	// Y->Z
}

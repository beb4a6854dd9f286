package cbn_test

import (
	"fmt"

	"github.com/katalvlaran/copulanet/cbn"
	"github.com/katalvlaran/copulanet/copula"
	"github.com/katalvlaran/copulanet/core"
	"github.com/katalvlaran/copulanet/dist"
)

// ExampleNew assembles the standard bivariate normal with correlation 0.5
// from two normal marginals and a Gaussian copula on B given A.
func ExampleNew() {
	d, err := core.ParseNamedDAG("A->B")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	rho, err := copula.NewBivariateGaussian(0.5)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	std := dist.Normal{Mu: 0, Sigma: 1}
	net, err := cbn.New(d, []dist.Distribution{std, std}, []copula.Copula{copula.NewIndependent(1), rho})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("f(0,0) = %.4f\n", net.PDF([]float64{0, 0}))
	// Output:
	// f(0,0) = 0.1838
}

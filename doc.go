// Package copulanet learns and fits continuous Bayesian networks whose
// local dependence structures are copulas.
//
// 🚀 What is copulanet?
//
//	A pure-Go toolkit that goes from a CSV sample to a density you can
//	evaluate and sample:
//		• Structure learning: PC (conditional independence tests), MIIC
//		  (3-point information), tabu search (penalized information score)
//		• Dependence measures: corrected conditional mutual information in
//		  Gaussian or Bernstein copula mode, Hellinger-distance tests
//		• Models: copula Bayesian networks (marginal per node + local copula
//		  given the parents) and junction-tree Bernstein copulas
//		• Graphs: PDAGs with Meek propagation, named DAGs, junction trees,
//		  Graphviz DOT export
//
// ✨ Layout
//
//	core/          PDAG, NamedDAG, orientation rules, moves, DOT
//	bfs/, dfs/     traversals, topological order, reachability
//	prim_kruskal/  maximum spanning trees for junction trees
//	junction/      junction trees from cliques or from a DAG
//	sample/        named samples, ranks, splits, CSV, summaries
//	dist/          univariate marginals and their factories
//	copula/        Independent, Gaussian and empirical Bernstein copulas
//	oracle/        corrected information and independence testers
//	pc/, miic/, tabu/  structure learners
//	cbn/           continuous Bayesian network and its factory
//	jtbernstein/   junction-tree Bernstein copula and its factory
//	builder/       synthetic DAGs and linear-Gaussian samples
//	config/        YAML and environment defaults
//	cmd/copulanet  the command-line front end
//
// Quick example:
//
//	A ──► B ──► C
//
//	s, _ := builder.LinearGaussianSample(chain, 1000, builder.WithSeed(1))
//	f, _ := cbn.NewFactory()          // learns the DAG with PC
//	net, _ := f.Build(s)
//	draws, _ := net.Sample(rng, 500)
//
//	go install github.com/katalvlaran/copulanet/cmd/copulanet@latest
package copulanet

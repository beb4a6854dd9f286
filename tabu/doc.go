// Package tabu learns a DAG by tabu search over local moves, scoring with
// penalized mutual information.
//
// The score of a DAG G over a sample of size N is
//
//	S(G) = Σ_v [ N·I'(X_v; X_pa(v)) − |pa(v)|·log(N)/2 ]
//
// where I' is the corrected set information of package oracle. Moves are
// the legal additions, deletions and reversals of core.PDAG.LegalMoves,
// bounded by MaxParents, with local deltas
//
//	add X→Y:     N·[I'(Y;pa(Y)+X) − I'(Y;pa(Y))] − log(N)/2
//	delete X→Y:  N·[I'(Y;pa(Y)−X) − I'(Y;pa(Y))] + log(N)/2
//	reverse X→Y: N·[I'(X;pa(X)+Y) + I'(Y;pa(Y)−X) − I'(X;pa(X)) − I'(Y;pa(Y))]
//
// Each step applies the best move not in the tabu list, a FIFO of the
// inverses of the last TabuListSize applied moves. A run stops when the
// best admissible delta is not positive or after MaxIterations steps. The
// first run starts from the initial DAG (empty by default); each further
// restart starts from a random walk of builder.DefaultWalkSteps legal moves.
// The best-scoring DAG over all runs is kept.
package tabu

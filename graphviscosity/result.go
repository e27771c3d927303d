package graphviscosity

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/wavespeed/utils"
)

// Result holds the per edge output of Evaluator.Evaluate
type Result struct {
	LambdaMax *mat.VecDense // Indexed like the edges of the EdgeSet
	PStar     *mat.VecDense
	// Iterations counts edges by Newton step count, -1 when the iteration
	// is disabled
	Iterations map[int]int
	edges      *EdgeSet
}

/*
AssembleViscosity builds the graph viscosity operator

	d_ij = d_ji = lambda_max(i,j) |c_ij|,   d_ii = -sum_{j != i} d_ij

so that every row sums to zero.
*/
func (r *Result) AssembleViscosity() (D utils.CSR) {
	var (
		es  = r.edges
		dok = utils.NewDOK(es.Nodes, es.Nodes)
	)
	for k := 0; k < es.Len(); k++ {
		var (
			i, j = es.I[k], es.J[k]
			dij  = r.LambdaMax.AtVec(k) * es.CNorm[k]
		)
		dok.Set(i, j, dij)
		dok.Set(j, i, dij)
		dok.AddTo(i, i, -dij)
		dok.AddTo(j, j, -dij)
	}
	dok.SetReadOnly("D")
	D = dok.ToCSR()
	return
}

/*
StableTimeStep is the largest explicit step keeping the low order update
invariant domain preserving, tau = cfl min_i m_i / (-2 d_ii), for lumped
masses m.
*/
func (r *Result) StableTimeStep(D utils.CSR, mass []float64, cfl float64) (tau float64) {
	var (
		nr, _ = D.Dims()
	)
	if len(mass) != nr {
		panic(fmt.Errorf("%d lumped masses for %d nodes", len(mass), nr))
	}
	tau = math.Inf(1)
	for i := 0; i < nr; i++ {
		dii := D.At(i, i)
		if dii < 0 {
			tau = math.Min(tau, mass[i]/(-2*dii))
		}
	}
	tau *= cfl
	return
}

// Summary reports the range and mean of lambda_max and the iteration counts
func (r *Result) Summary() string {
	if r.LambdaMax == nil {
		return "no edges"
	}
	var (
		lam    = r.LambdaMax.RawVector().Data
		counts = make([]int, 0, len(r.Iterations))
		s      string
	)
	s = fmt.Sprintf("edges: %d, lambda_max: min %8.5g max %8.5g mean %8.5g\n",
		len(lam), floats.Min(lam), floats.Max(lam), floats.Sum(lam)/float64(len(lam)))
	for it := range r.Iterations {
		counts = append(counts, it)
	}
	sort.Ints(counts)
	for _, it := range counts {
		s += fmt.Sprintf("iterations[%d] = %d\n", it, r.Iterations[it])
	}
	return s
}

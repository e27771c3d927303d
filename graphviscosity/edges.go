package graphviscosity

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/wavespeed/riemann"
	"github.com/notargets/wavespeed/types"
)

var (
	ErrEdge       = errors.New("graphviscosity: invalid edge")
	ErrStateShape = errors.New("graphviscosity: state matrix does not match the edge set")
	ErrStateNaN   = errors.New("graphviscosity: NaN in nodal states")
)

/*
EdgeSet is the sparsity pattern of coupled degrees of freedom. Each edge
(i, j), i < j, carries the unit direction n_ij = c_ij/|c_ij| and the norm
|c_ij| of its discrete gradient coefficient. Hd holds the local length
scale of every node, used when the greedy bounds are relaxed.
*/
type EdgeSet struct {
	Nodes, Dim int
	I, J       []int
	Normals    [][]float64 // One unit vector of length Dim per edge
	CNorm      []float64
	Hd         []float64
	index      map[types.EdgeKey]int
}

func NewEdgeSet(nodes, dim int) *EdgeSet {
	if dim < 1 || dim > riemann.MaxDim {
		panic(fmt.Errorf("dimension %d out of range [1,%d]", dim, riemann.MaxDim))
	}
	return &EdgeSet{
		Nodes: nodes,
		Dim:   dim,
		Hd:    make([]float64, nodes),
		index: make(map[types.EdgeKey]int),
	}
}

func (es *EdgeSet) Len() int { return len(es.I) }

// Index returns the position of the edge coupling i and j, in either order
func (es *EdgeSet) Index(i, j int) (k int, ok bool) {
	if i < 0 || j < 0 {
		return
	}
	k, ok = es.index[types.NewEdgeKey(i, j)]
	return
}

// AddEdge couples i and j through the coefficient vector c_ij. An edge given
// as (j, i) is stored as (i, j) with c_ji = -c_ij.
func (es *EdgeSet) AddEdge(i, j int, c []float64) (err error) {
	switch {
	case i == j:
		return fmt.Errorf("%w: self coupling of node %d", ErrEdge, i)
	case i < 0 || j < 0 || i >= es.Nodes || j >= es.Nodes:
		return fmt.Errorf("%w: (%d,%d) outside [0,%d)", ErrEdge, i, j, es.Nodes)
	case len(c) != es.Dim:
		return fmt.Errorf("%w: coefficient has %d components, want %d", ErrEdge, len(c), es.Dim)
	}
	var (
		norm = floats.Norm(c, 2)
		n    = make([]float64, es.Dim)
	)
	if !(norm > 0) || math.IsInf(norm, 0) {
		return fmt.Errorf("%w: |c_%d%d| = %v", ErrEdge, i, j, norm)
	}
	floats.ScaleTo(n, 1./norm, c)
	if i > j {
		i, j = j, i
		floats.Scale(-1, n)
	}
	key := types.NewEdgeKey(i, j)
	if _, ok := es.index[key]; ok {
		return fmt.Errorf("%w: duplicate edge %v", ErrEdge, key)
	}
	es.index[key] = es.Len()
	es.I = append(es.I, i)
	es.J = append(es.J, j)
	es.Normals = append(es.Normals, n)
	es.CNorm = append(es.CNorm, norm)
	return
}

// RingGraph couples every node with its next neighbors/2 nodes around a ring
// through random coefficient vectors
func RingGraph(nodes, neighbors, dim int, rnd *rand.Rand) (es *EdgeSet, err error) {
	var (
		reach = neighbors / 2
	)
	if reach < 1 || 2*reach >= nodes {
		err = fmt.Errorf("%w: %d neighbors on a ring of %d nodes", ErrEdge, neighbors, nodes)
		return
	}
	es = NewEdgeSet(nodes, dim)
	c := make([]float64, dim)
	for i := 0; i < nodes; i++ {
		es.Hd[i] = 1. / float64(nodes)
		for r := 1; r <= reach; r++ {
			for k := range c {
				c[k] = rnd.NormFloat64()
			}
			if err = es.AddEdge(i, (i+r)%nodes, c); err != nil {
				return
			}
		}
	}
	return
}

// RandomStates draws admissible conserved states, one row (rho, m, E) per
// node, with density and pressure log-uniform in [1e-2, 1e2]
func RandomStates(nodes, dim int, gamma float64, rnd *rand.Rand) (U *mat.Dense) {
	U = mat.NewDense(nodes, dim+2, nil)
	for i := 0; i < nodes; i++ {
		var (
			rho = math.Pow(10, -2+4*rnd.Float64())
			p   = math.Pow(10, -2+4*rnd.Float64())
			v2  float64
		)
		U.Set(i, 0, rho)
		for k := 0; k < dim; k++ {
			v := -5 + 10*rnd.Float64()
			U.Set(i, 1+k, rho*v)
			v2 += v * v
		}
		U.Set(i, dim+1, p/(gamma-1)+0.5*rho*v2)
	}
	return
}

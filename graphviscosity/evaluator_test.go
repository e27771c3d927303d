package graphviscosity

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/wavespeed/riemann"
	"github.com/notargets/wavespeed/utils"
)

func TestEdgeSet(t *testing.T) {
	es := NewEdgeSet(3, 2)
	require.NoError(t, es.AddEdge(0, 1, []float64{3, 4}))
	{ // Reversed edges are stored with i < j and the direction flipped
		require.NoError(t, es.AddEdge(2, 1, []float64{0, 2}))
		assert.Equal(t, 1, es.I[1])
		assert.Equal(t, 2, es.J[1])
		assert.Equal(t, []float64{0, -1}, es.Normals[1])
		assert.Equal(t, 2., es.CNorm[1])
	}
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, es.Normals[0], 1.e-15)
	assert.Equal(t, 5., es.CNorm[0])
	assert.True(t, errors.Is(es.AddEdge(1, 0, []float64{1, 0}), ErrEdge))
	assert.True(t, errors.Is(es.AddEdge(1, 1, []float64{1, 0}), ErrEdge))
	assert.True(t, errors.Is(es.AddEdge(0, 3, []float64{1, 0}), ErrEdge))
	assert.True(t, errors.Is(es.AddEdge(0, 2, []float64{1}), ErrEdge))
	assert.True(t, errors.Is(es.AddEdge(0, 2, []float64{0, 0}), ErrEdge))
	assert.Equal(t, 2, es.Len())
	k, ok := es.Index(2, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, k)
	_, ok = es.Index(0, 2)
	assert.False(t, ok)
	_, err := RingGraph(4, 4, 2, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, ErrEdge))
}

func TestEvaluate(t *testing.T) {
	var (
		cfg    = riemann.DefaultConfig()
		rnd    = rand.New(rand.NewSource(1))
		nodes  = 203
		dim    = 2
		es, _  = RingGraph(nodes, 6, dim, rnd)
		states = RandomStates(nodes, dim, cfg.Gamma, rnd)
		ctx    = context.Background()
	)
	cfg.NewtonMaxIter = 4
	cfg.Validate = true
	require.Equal(t, 3*nodes, es.Len())

	evScalar, err := NewEvaluator(cfg, es, WithLanes(false), WithProcLimit(1))
	require.NoError(t, err)
	resScalar, err := evScalar.Evaluate(ctx, states)
	require.NoError(t, err)

	evLanes, err := NewEvaluator(cfg, es, WithProcLimit(3))
	require.NoError(t, err)
	resLanes, err := evLanes.Evaluate(ctx, states)
	require.NoError(t, err)

	{ // Every edge matches a direct evaluation, independent of the bucketing
		s := riemann.MustNewSolver[utils.Scalar](cfg)
		for k := 0; k < es.Len(); k++ {
			var (
				Ui, Uj = make([]utils.Scalar, dim+2), make([]utils.Scalar, dim+2)
				n      = []utils.Scalar{utils.Scalar(es.Normals[k][0]), utils.Scalar(es.Normals[k][1])}
			)
			for v := 0; v < dim+2; v++ {
				Ui[v], Uj[v] = utils.Scalar(states.At(es.I[k], v)), utils.Scalar(states.At(es.J[k], v))
			}
			r := s.ComputeFromStates(Ui, Uj, n, 0)
			assert.Equal(t, float64(r.LambdaMax), resScalar.LambdaMax.AtVec(k))
			assert.Equal(t, float64(r.PStar), resScalar.PStar.AtVec(k))
			assert.InDelta(t, float64(r.LambdaMax), resLanes.LambdaMax.AtVec(k), 1.e-8*float64(r.LambdaMax)+1.e-10)
		}
	}
	{ // The histogram counts every edge once
		var total int
		for _, count := range resLanes.Iterations {
			total += count
		}
		assert.Equal(t, es.Len(), total)
		assert.Contains(t, resLanes.Summary(), "edges: 609")
	}
	{ // The assembled operator is symmetric and conservative
		D := resLanes.AssembleViscosity()
		r, c := D.Dims()
		assert.Equal(t, nodes, r)
		assert.Equal(t, nodes, c)
		assert.Equal(t, nodes+2*es.Len(), D.NNZ())
		for i, sum := range D.RowSums() {
			assert.InDelta(t, 0., sum, 1.e-12*math.Abs(D.At(i, i)))
		}
		k := 17
		dij := resLanes.LambdaMax.AtVec(k) * es.CNorm[k]
		assert.Equal(t, dij, D.At(es.I[k], es.J[k]))
		assert.Equal(t, dij, D.At(es.J[k], es.I[k]))
		assert.True(t, mat.Equal(D, D.T()))

		mass := make([]float64, nodes)
		for i := range mass {
			mass[i] = 1. / float64(nodes)
		}
		tau := resLanes.StableTimeStep(D, mass, 0.5)
		assert.Greater(t, tau, 0.)
		for i := 0; i < nodes; i++ {
			assert.LessOrEqual(t, 2*tau*(-D.At(i, i)), mass[i]*(1+1.e-12))
		}
	}
}

func TestEvaluateGreedy(t *testing.T) {
	var (
		cfg    = riemann.DefaultConfig()
		rnd    = rand.New(rand.NewSource(2))
		nodes  = 64
		es, _  = RingGraph(nodes, 4, 1, rnd)
		states = RandomStates(nodes, 1, cfg.Gamma, rnd)
	)
	full, err := NewEvaluator(cfg, es)
	require.NoError(t, err)
	cfg.Greedy = true
	cfg.GreedyRelaxBounds = true
	greedy, err := NewEvaluator(cfg, es)
	require.NoError(t, err)
	rf, err := full.Evaluate(context.Background(), states)
	require.NoError(t, err)
	rg, err := greedy.Evaluate(context.Background(), states)
	require.NoError(t, err)
	cfg.GreedyRelaxBounds = false
	strict, err := NewEvaluator(cfg, es)
	require.NoError(t, err)
	rs, err := strict.Evaluate(context.Background(), states)
	require.NoError(t, err)
	var relaxed int
	for k := 0; k < es.Len(); k++ {
		assert.LessOrEqual(t, rg.LambdaMax.AtVec(k), rf.LambdaMax.AtVec(k)*(1+1.e-12))
		assert.LessOrEqual(t, rs.LambdaMax.AtVec(k), rf.LambdaMax.AtVec(k)*(1+1.e-12))
		assert.Greater(t, rg.LambdaMax.AtVec(k), 0.)
		if rg.LambdaMax.AtVec(k) != rs.LambdaMax.AtVec(k) {
			relaxed++
		}
	}
	// hd = 1/nodes loosens the entropy bounds of the edges they limit
	assert.Greater(t, relaxed, 0)
}

func TestEvaluateErrors(t *testing.T) {
	var (
		cfg   = riemann.DefaultConfig()
		rnd   = rand.New(rand.NewSource(3))
		es, _ = RingGraph(40, 2, 2, rnd)
	)
	cfg.Validate = true
	ev, err := NewEvaluator(cfg, es)
	require.NoError(t, err)
	{ // Shape mismatch
		_, err = ev.Evaluate(context.Background(), mat.NewDense(40, 3, nil))
		assert.True(t, errors.Is(err, ErrStateShape))
	}
	{ // NaN input is rejected before any edge is evaluated
		states := RandomStates(40, 2, cfg.Gamma, rnd)
		states.Set(3, 0, math.NaN())
		_, err = ev.Evaluate(context.Background(), states)
		assert.True(t, errors.Is(err, ErrStateNaN))
	}
	{ // A negative pressure surfaces as the kernel's sentinel
		states := RandomStates(40, 2, cfg.Gamma, rnd)
		states.Set(7, 3, -1)
		_, err = ev.Evaluate(context.Background(), states)
		assert.True(t, errors.Is(err, riemann.ErrInadmissibleState))
	}
	{ // Cancellation
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = ev.Evaluate(ctx, RandomStates(40, 2, cfg.Gamma, rnd))
		assert.True(t, errors.Is(err, context.Canceled))
	}
	{ // Invalid configuration
		cfg.Covolume = 0.1
		_, err = NewEvaluator(cfg, es)
		assert.True(t, errors.Is(err, riemann.ErrCovolume))
	}
	{ // No edges
		ev, err = NewEvaluator(riemann.DefaultConfig(), NewEdgeSet(5, 1))
		require.NoError(t, err)
		res, err := ev.Evaluate(context.Background(), mat.NewDense(5, 3, nil))
		require.NoError(t, err)
		assert.Equal(t, "no edges", res.Summary())
		assert.Equal(t, 0, res.AssembleViscosity().NNZ())
	}
}

package graphviscosity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/wavespeed/riemann"
	"github.com/notargets/wavespeed/utils"
)

/*
Evaluator computes the wave speed bound of every edge of an EdgeSet for a
given set of nodal states. Edges are split into contiguous buckets, one
goroutine per bucket. Within a bucket, edges are evaluated four at a time
with the Lanes4 kernel and the remainder one at a time.

The EdgeSet must be complete before NewEvaluator is called.
*/
type Evaluator struct {
	edges    *EdgeSet
	scalar   *riemann.Solver[utils.Scalar]
	lanes    *riemann.Solver[utils.Lanes4]
	pm       *utils.PartitionMap
	useLanes bool
	metrics  *metrics
}

type Option func(ev *Evaluator)

// WithLanes toggles the four wide kernel, scalar evaluation is used otherwise
func WithLanes(on bool) Option {
	return func(ev *Evaluator) { ev.useLanes = on }
}

// WithProcLimit caps the number of buckets, zero uses every CPU
func WithProcLimit(np int) Option {
	return func(ev *Evaluator) {
		ev.pm = utils.NewPartitionMap(utils.ParallelDegreeFor(np, ev.edges.Len()), ev.edges.Len())
	}
}

func NewEvaluator(cfg riemann.Config, edges *EdgeSet, opts ...Option) (ev *Evaluator, err error) {
	ev = &Evaluator{
		edges:    edges,
		useLanes: true,
	}
	if ev.scalar, err = riemann.NewSolver[utils.Scalar](cfg); err != nil {
		return nil, err
	}
	if ev.lanes, err = riemann.NewSolver[utils.Lanes4](cfg); err != nil {
		return nil, err
	}
	WithProcLimit(0)(ev)
	for _, opt := range opts {
		opt(ev)
	}
	return
}

/*
Evaluate returns lambda_max and the star pressure bound of every edge.
states holds one conserved state per node, (rho, m_1..m_d, E) by row.
A validation failure inside the kernel is returned as an error wrapping the
kernel's sentinel, and cancellation of ctx stops the remaining buckets.
*/
func (ev *Evaluator) Evaluate(ctx context.Context, states *mat.Dense) (res *Result, err error) {
	var (
		nr, nc = states.Dims()
		nEdges = ev.edges.Len()
		start  = time.Now()
		logger = utils.Logger()
	)
	if nr != ev.edges.Nodes || nc != ev.edges.Dim+2 {
		err = fmt.Errorf("%w: states are %dx%d, edges need %dx%d",
			ErrStateShape, nr, nc, ev.edges.Nodes, ev.edges.Dim+2)
		return
	}
	if utils.IsNan(states) {
		err = ErrStateNaN
		return
	}
	res = &Result{
		Iterations: make(map[int]int),
		edges:      ev.edges,
	}
	if nEdges == 0 {
		return
	}
	res.LambdaMax = mat.NewVecDense(nEdges, nil)
	res.PStar = mat.NewVecDense(nEdges, nil)
	var (
		mu      sync.Mutex
		g, gctx = errgroup.WithContext(ctx)
	)
	for bn := 0; bn < ev.pm.ParallelDegree; bn++ {
		bn := bn
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					if e, ok := r.(error); ok {
						err = fmt.Errorf("bucket %d: %w", bn, e)
					} else {
						err = fmt.Errorf("bucket %d: %v", bn, r)
					}
				}
			}()
			var (
				kMin, kMax    = ev.pm.GetBucketRange(bn)
				laneHistogram = make(map[int]int)
				histogram     = make(map[int]int)
				k             = kMin
			)
			if err = gctx.Err(); err != nil {
				return
			}
			if ev.useLanes {
				for ; k+utils.LaneWidth <= kMax; k += utils.LaneWidth {
					if err = gctx.Err(); err != nil {
						return
					}
					ev.evaluateGroup(states, k, res, laneHistogram)
				}
			}
			for ; k < kMax; k++ {
				if k%64 == 0 {
					if err = gctx.Err(); err != nil {
						return
					}
				}
				ev.evaluateEdge(states, k, res, histogram)
			}
			ev.metrics.observe(kernelName(utils.LaneWidth), laneHistogram)
			ev.metrics.observe(kernelName(1), histogram)
			mu.Lock()
			for _, h := range []map[int]int{laneHistogram, histogram} {
				for it, count := range h {
					res.Iterations[it] += count
				}
			}
			mu.Unlock()
			return
		})
	}
	if err = g.Wait(); err != nil {
		res = nil
		return
	}
	ev.metrics.observeDuration(time.Since(start).Seconds())
	logger.Debug().
		Int("edges", nEdges).
		Int("buckets", ev.pm.ParallelDegree).
		Bool("lanes", ev.useLanes).
		Dur("elapsed", time.Since(start)).
		Msg("wave speeds evaluated")
	return
}

func (ev *Evaluator) evaluateEdge(states *mat.Dense, k int, res *Result, histogram map[int]int) {
	var (
		es     = ev.edges
		nVar   = es.Dim + 2
		Ui, Uj = make([]utils.Scalar, nVar), make([]utils.Scalar, nVar)
		n      = make([]utils.Scalar, es.Dim)
		rowI   = states.RawRowView(es.I[k])
		rowJ   = states.RawRowView(es.J[k])
	)
	for v := 0; v < nVar; v++ {
		Ui[v], Uj[v] = utils.Scalar(rowI[v]), utils.Scalar(rowJ[v])
	}
	for d := 0; d < es.Dim; d++ {
		n[d] = utils.Scalar(es.Normals[k][d])
	}
	r := ev.scalar.ComputeFromStates(Ui, Uj, n, utils.Scalar(es.Hd[es.I[k]]))
	res.LambdaMax.SetVec(k, float64(r.LambdaMax))
	res.PStar.SetVec(k, float64(r.PStar))
	histogram[r.Iterations]++
}

// evaluateGroup runs the edges k..k+3 lock-step
func (ev *Evaluator) evaluateGroup(states *mat.Dense, k int, res *Result, histogram map[int]int) {
	var (
		es           = ev.edges
		nVar         = es.Dim + 2
		rowsI, rowsJ = make([][]float64, utils.LaneWidth), make([][]float64, utils.LaneWidth)
		hd           utils.Lanes4
		Ui, Uj       = make([]utils.Lanes4, nVar), make([]utils.Lanes4, nVar)
		n            = make([]utils.Lanes4, es.Dim)
	)
	for l := 0; l < utils.LaneWidth; l++ {
		rowsI[l] = states.RawRowView(es.I[k+l])
		rowsJ[l] = states.RawRowView(es.J[k+l])
		hd[l] = es.Hd[es.I[k+l]]
	}
	for v := 0; v < nVar; v++ {
		Ui[v], Uj[v] = utils.LoadLanes4(rowsI, v), utils.LoadLanes4(rowsJ, v)
	}
	for d := 0; d < es.Dim; d++ {
		n[d] = utils.LoadLanes4(es.Normals[k:k+utils.LaneWidth], d)
	}
	r := ev.lanes.ComputeFromStates(Ui, Uj, n, hd)
	utils.StoreLanes4(r.LambdaMax, res.LambdaMax.RawVector().Data[k:k+utils.LaneWidth])
	utils.StoreLanes4(r.PStar, res.PStar.RawVector().Data[k:k+utils.LaneWidth])
	histogram[r.Iterations] += utils.LaneWidth
}

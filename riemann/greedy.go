package riemann

import (
	"fmt"

	"github.com/notargets/wavespeed/utils"
)

/*
ComputeFromStates projects the conserved states Ui and Uj (length d+2) onto
the unit direction n (length d) and computes the wave speed bound.

With Config.Greedy the bound is then minimized: the bar state
Ubar = (Ui + Uj)/2 corrected by t P, P = (f(Ui) - f(Uj)).n / 2, is limited
against the density and entropy bounds for t in [1/lambda_max, 1000/lambda_max].
The greedy bound 1/t never exceeds lambda_max. hd is the local length scale
used to relax the entropy bounds when Config.GreedyRelaxBounds is set.
*/
func (s *Solver[T]) ComputeFromStates(Ui, Uj, n []T, hd T) (r EdgeResult[T]) {
	var (
		ri = s.ProjectState(Ui, n)
		rj = s.ProjectState(Uj, n)
	)
	if !s.cfg.Greedy {
		return s.Compute(ri, rj)
	}

	b := s.ComputeBracket(ri, rj)
	lambdaMax := s.computeLambda(ri, rj, b.PHi)
	r = EdgeResult[T]{
		LambdaMax:  lambdaMax,
		PStar:      b.PHi,
		Iterations: b.Iterations,
	}
	if s.cfg.Validate {
		s.checkResult(ri, rj, r)
	}

	// skip the minimization when no lane has enough density contrast
	var (
		rhoMin = ri.Rho.Min(rj.Rho)
		rhoMax = ri.Rho.Max(rj.Rho)
	)
	if rhoMax.Sub(rhoMin).Sub(rhoMax.Scale(s.cfg.GreedyThreshold)).MaxLane() <= 0 {
		return
	}

	var (
		dim    = len(n)
		ci     = ConservedFrom(Ui, dim)
		cj     = ConservedFrom(Uj, dim)
		nn     [MaxDim]T
		bounds = s.ComputeBounds(ri, rj, b.PLo, b.PHi)
	)
	for k := 0; k < dim; k++ {
		nn[k] = n[k]
	}
	var (
		Ubar = ci.Add(cj).Scale(0.5)
		P    = s.NormalFlux(ci, nn).Sub(s.NormalFlux(cj, nn)).Scale(0.5)
	)
	if s.cfg.GreedyRelaxBounds {
		bounds = bounds.Relax(hd)
	}

	var (
		one                 = utils.Splat[T](1)
		lambdaGreedyInverse = s.limiter.Limit(bounds, Ubar, P, one.Div(lambdaMax), one.Scale(1000.).Div(lambdaMax))
		lambdaGreedy        = one.Div(lambdaGreedyInverse)
	)
	if s.cfg.Validate {
		if lambdaMax.Sub(lambdaGreedy).MinLane() <= -100.*s.cfg.NewtonTolerance {
			panic(fmt.Errorf("%w: lambda_greedy = %v, lambda_max = %v", ErrGreedyIncrease, lambdaGreedy, lambdaMax))
		}
	}
	// min(lambda_greedy, lambda_max), a NaN lane keeps lambda_max
	r.LambdaMax = lambdaGreedy.Select(utils.Less, lambdaMax, lambdaGreedy, lambdaMax)
	return
}

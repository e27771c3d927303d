package riemann

import (
	"fmt"

	"github.com/notargets/wavespeed/utils"
)

/*
Solver computes, for a pair of states coupled by a graph edge, an upper bound
on the maximal signal speed of the 1D Riemann problem between them together
with an upper bound on its star pressure.

A Solver holds only read-only constants. Every call is an independent pure
function of its arguments, so one Solver may be shared by any number of
goroutines. Instantiate with utils.Scalar for single edges or utils.Lanes4 to
evaluate four edges lock-step.
*/
type Solver[T utils.Number[T]] struct {
	cfg     Config
	gc      gasConstants
	limiter Limiter[T]
}

type Option[T utils.Number[T]] func(s *Solver[T])

// WithLimiter replaces the limiter used by the greedy minimization
func WithLimiter[T utils.Number[T]](l Limiter[T]) Option[T] {
	return func(s *Solver[T]) {
		s.limiter = l
	}
}

func NewSolver[T utils.Number[T]](cfg Config, opts ...Option[T]) (s *Solver[T], err error) {
	if err = cfg.Check(); err != nil {
		return
	}
	s = &Solver[T]{
		cfg: cfg,
		gc:  newGasConstants(cfg.Gamma),
	}
	s.limiter = NewEntropyInequalityLimiter[T](cfg.Gamma, cfg.LineSearchMaxIter)
	for _, opt := range opts {
		opt(s)
	}
	return
}

func MustNewSolver[T utils.Number[T]](cfg Config, opts ...Option[T]) (s *Solver[T]) {
	var (
		err error
	)
	if s, err = NewSolver[T](cfg, opts...); err != nil {
		panic(err)
	}
	return
}

func (s *Solver[T]) Config() Config { return s.cfg }

/*
initialBracket picks pLo <= p_star <= pHi from p_min, p_max and the
two-rarefaction estimate p~:

	phi(p_max) <  0:  pLo = p_max, pHi = p~
	phi(p_max) >= 0:  pLo = p_min, pHi = min(p_max, p~)

With two expansion waves p~ may fall below p_min, in which case pLo is
clamped to pHi.
*/
func (s *Solver[T]) initialBracket(ri, rj Primitive[T]) (pLo, pHi T) {
	var (
		zero       = utils.Splat[T](0)
		pMin       = ri.P.Min(rj.P)
		pMax       = ri.P.Max(rj.P)
		pStarTilde = s.pStarTwoRarefaction(ri, rj)
		phiPMax    = s.phiOfPMax(ri, rj)
	)
	pHi = phiPMax.Select(utils.Less, zero, pStarTilde, pMax.Min(pStarTilde))
	pLo = phiPMax.Select(utils.Less, zero, pMax, pMin)
	pLo = pLo.Select(utils.LessOrEqual, pHi, pLo, pHi)
	return
}

/*
ComputeBracket refines the initial bracket with quadratic Newton steps until
the gap between the wave speed estimates of both ends drops below the
tolerance in every lane, or NewtonMaxIter steps have been taken.

A new upper end is only accepted where phi stays non-negative up to round-off.
On very wide brackets the step can overshoot past p_star; the rejected point
then lies below p_star and tightens the lower end instead, so PHi remains an
upper bound of the star pressure in every lane.
*/
func (s *Solver[T]) ComputeBracket(ri, rj Primitive[T]) (b Bracket[T]) {
	b.PLo, b.PHi = s.initialBracket(ri, rj)
	if s.cfg.NewtonMaxIter == 0 {
		b.Iterations = -1
		return
	}
	var (
		zero  = utils.Splat[T](0)
		slack = ri.U.Abs().Add(rj.U.Abs()).Add(ri.A).Add(rj.A).Shift(1.).Scale(64. * machineEpsilon)
		phiLo = s.phi(ri, rj, b.PLo)
		phiHi = s.phi(ri, rj, b.PHi)
	)
	gap, _ := s.computeGap(ri, rj, b.PLo, b.PHi)
	var i int
	for ; i < s.cfg.NewtonMaxIter; i++ {
		if gap.MaxLane() <= s.cfg.NewtonTolerance {
			break
		}
		var (
			dphiLo = s.dphi(ri, rj, b.PLo)
			dphiHi = s.dphi(ri, rj, b.PHi)
		)
		tLo, tHi := QuadraticNewtonStep(b.PLo, b.PHi, phiLo, phiHi, dphiLo, dphiHi)
		var (
			phiTLo = s.phi(ri, rj, tLo)
			phiTHi = s.phi(ri, rj, tHi)
			// NaN compares false and keeps the previous end
			hiAbove = phiTHi.Add(slack)
			loBelow = phiTLo.Sub(slack)
			pLo     = loBelow.Select(utils.LessOrEqual, zero, tLo, b.PLo)
			pHi     = hiAbove.Select(utils.GreaterOrEqual, zero, tHi, b.PHi)
		)
		phiLo = loBelow.Select(utils.LessOrEqual, zero, phiTLo, phiLo)
		phiHi = hiAbove.Select(utils.GreaterOrEqual, zero, phiTHi, phiHi)
		// a point with phi < 0 is below p_star, one with phi > 0 above it
		phiLo = hiAbove.Select(utils.Less, zero, phiTHi.Max(phiLo), phiLo)
		pLo = hiAbove.Select(utils.Less, zero, tHi.Max(pLo), pLo)
		phiHi = loBelow.Select(utils.Greater, zero, phiTLo.Min(phiHi), phiHi)
		pHi = loBelow.Select(utils.Greater, zero, tLo.Min(pHi), pHi)
		phiLo = pLo.Select(utils.LessOrEqual, pHi, phiLo, phiHi)
		b.PLo, b.PHi = pLo.Select(utils.LessOrEqual, pHi, pLo, pHi), pHi
		gap, _ = s.computeGap(ri, rj, b.PLo, b.PHi)
	}
	b.Iterations = i
	return
}

// Compute returns the wave speed bound for two projected states
func (s *Solver[T]) Compute(ri, rj Primitive[T]) (r EdgeResult[T]) {
	b := s.ComputeBracket(ri, rj)
	r = EdgeResult[T]{
		LambdaMax:  s.computeLambda(ri, rj, b.PHi),
		PStar:      b.PHi,
		Iterations: b.Iterations,
	}
	if s.cfg.Validate {
		s.checkResult(ri, rj, r)
	}
	return
}

// checkResult asserts phi(p_star) >= 0, relative to the velocity scale of
// the problem
func (s *Solver[T]) checkResult(ri, rj Primitive[T], r EdgeResult[T]) {
	if utils.IsNan(r.LambdaMax) || utils.IsNan(r.PStar) {
		panic(fmt.Errorf("%w: lambda_max = %v, p_star = %v", ErrNaN, r.LambdaMax, r.PStar))
	}
	var (
		phiPStar = s.phi(ri, rj, r.PStar)
		scale    = ri.U.Abs().Add(rj.U.Abs()).Add(ri.A).Add(rj.A).Shift(1.)
	)
	if phiPStar.Add(scale.Scale(s.cfg.NewtonTolerance)).MinLane() < 0 {
		panic(fmt.Errorf("%w: phi = %v at p_star = %v", ErrPhiNegative, phiPStar, r.PStar))
	}
}

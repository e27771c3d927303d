package riemann

import (
	"github.com/notargets/wavespeed/utils"
)

/*
Limiter searches for the largest t in [tMin, tMax] such that the state
U + t P stays inside the region described by bounds. tMin must be returned
when no larger t is admissible.
*/
type Limiter[T utils.Number[T]] interface {
	Limit(bounds Bounds[T], U, P Conserved[T], tMin, tMax T) T
}

/*
EntropyInequalityLimiter admits U(t) = U + t P when

	rho_min <= rho(t) <= rho_max
	rho e(t) - s_min rho(t)^gamma >= 0
	s_alpha(U(t)) - (a + t b)     >= 0

with s_alpha = (rho rho e)^(1/(gamma+1)). Density is linear in t and is
limited in closed form. The entropy constraints are concave in t, so the
admissible set is an interval and is found by bisection.
*/
type EntropyInequalityLimiter[T utils.Number[T]] struct {
	Gamma   float64
	MaxIter int
	gpoInv  float64
}

func NewEntropyInequalityLimiter[T utils.Number[T]](gamma float64, maxIter int) *EntropyInequalityLimiter[T] {
	return &EntropyInequalityLimiter[T]{
		Gamma:   gamma,
		MaxIter: maxIter,
		gpoInv:  1. / (gamma + 1.),
	}
}

// psi is non-negative exactly where the entropy constraints hold
func (l *EntropyInequalityLimiter[T]) psi(b Bounds[T], U, P Conserved[T], t T) T {
	var (
		Ut     = U.AddScaled(t, P)
		rhoE   = Ut.InternalEnergy()
		psi1   = rhoE.Sub(b.SMin.Mul(Ut.Rho.Pow(l.Gamma)))
		sAlpha = rhoE.Mul(Ut.Rho).PositivePart().Pow(l.gpoInv)
		psi2   = sAlpha.Sub(b.SAlphaAvg.Add(t.Mul(b.SAlphaFlux)))
	)
	// NaN lanes compare false against zero and are rejected by the caller
	return Ut.Rho.Select(utils.Greater, utils.Splat[T](0), psi1.Min(psi2), utils.Splat[T](-1))
}

func (l *EntropyInequalityLimiter[T]) Limit(b Bounds[T], U, P Conserved[T], tMin, tMax T) (t T) {
	var (
		zero = utils.Splat[T](0)
		// largest t keeping the density inside [RhoMin, RhoMax]
		tUp   = b.RhoMax.Sub(U.Rho).Div(P.Rho)
		tDown = b.RhoMin.Sub(U.Rho).Div(P.Rho)
		tRho  = P.Rho.Select(utils.Greater, zero, tUp, P.Rho.Select(utils.Less, zero, tDown, tMax))
		tL    = tMin
		tR    = tMax.Min(tRho).Max(tMin)
	)
	// accept the right end outright where it is admissible
	psiR := l.psi(b, U, P, tR)
	tL = psiR.Select(utils.GreaterOrEqual, zero, tR, tL)
	for n := 0; n < l.MaxIter; n++ {
		if tR.Sub(tL).MaxLane() <= 0 {
			break
		}
		tM := tL.Add(tR).Scale(0.5)
		psiM := l.psi(b, U, P, tM)
		tL = psiM.Select(utils.GreaterOrEqual, zero, tM, tL)
		tR = psiM.Select(utils.GreaterOrEqual, zero, tR, tM)
	}
	t = tL
	return
}

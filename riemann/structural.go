package riemann

import (
	"github.com/notargets/wavespeed/utils"
)

/*
The star pressure is the root of

	phi(p) = f(state_i, p) + f(state_j, p) + u_j - u_i

phi is monotone increasing in p, concave down, and its third derivative is
non-negative and locally bounded. The shock and rarefaction branches of f are
selected per lane by value, never by control flow.
*/

// f costs one pow, one division and two sqrt
func (s *Solver[T]) f(ps Primitive[T], pStar T) T {
	var (
		g               = s.gc.gamma
		radicandInverse = pStar.Scale(g + 1.).Add(ps.P.Scale(g - 1.)).Mul(ps.Rho).Scale(0.5)
		shock           = pStar.Sub(ps.P).Div(radicandInverse.Sqrt())
		exponent        = (g - 1.) * 0.5 * s.gc.gammaInverse
		factor          = pStar.Div(ps.P).Pow(exponent).Shift(-1.)
		rarefaction     = factor.Mul(ps.A).Scale(2. * s.gc.gammaMinusOneInverse)
	)
	return pStar.Select(utils.GreaterOrEqual, ps.P, shock, rarefaction)
}

// df is the derivative of f in pStar
func (s *Solver[T]) df(ps Primitive[T], pStar T) T {
	var (
		g               = s.gc.gamma
		radicandInverse = pStar.Scale(g + 1.).Add(ps.P.Scale(g - 1.)).Mul(ps.Rho).Scale(0.5)
		denominator     = pStar.Add(ps.P.Scale(s.gc.gm1OverGp1))
		shock           = denominator.Sub(pStar.Sub(ps.P).Scale(0.5)).Div(denominator.Mul(radicandInverse.Sqrt()))
		exponent        = (-1. - g) * 0.5 * s.gc.gammaInverse
		factor          = pStar.Div(ps.P).Pow(exponent).Div(ps.P).Scale((g - 1.) * 0.5 * s.gc.gammaInverse)
		rarefaction     = factor.Mul(ps.A).Scale(2. * s.gc.gammaMinusOneInverse)
	)
	return pStar.Select(utils.GreaterOrEqual, ps.P, shock, rarefaction)
}

// phi adds the velocity jump last so that exchanging i and j (with the
// velocities negated) reproduces phi bit for bit
func (s *Solver[T]) phi(ri, rj Primitive[T], p T) T {
	return s.f(ri, p).Add(s.f(rj, p)).Add(rj.U.Sub(ri.U))
}

func (s *Solver[T]) dphi(ri, rj Primitive[T], p T) T {
	return s.df(ri, p).Add(s.df(rj, p))
}

// phiOfPMax evaluates phi at max(p_i, p_j) where both states are on the
// shock branch, so no pow is needed
func (s *Solver[T]) phiOfPMax(ri, rj Primitive[T]) T {
	var (
		g       = s.gc.gamma
		pMax    = ri.P.Max(rj.P)
		radInvI = pMax.Scale(g + 1.).Add(ri.P.Scale(g - 1.)).Mul(ri.Rho).Scale(0.5)
		valueI  = pMax.Sub(ri.P).Div(radInvI.Sqrt())
		radInvJ = pMax.Scale(g + 1.).Add(rj.P.Scale(g - 1.)).Mul(rj.Rho).Scale(0.5)
		valueJ  = pMax.Sub(rj.P).Div(radInvJ.Sqrt())
	)
	return valueI.Add(valueJ).Add(rj.U.Sub(ri.U))
}

/*
pStarTwoRarefaction is the closed form star pressure of a Riemann problem
with two rarefaction waves,

	p~ = p_b ((a_i + a_j - (gamma-1)/2 (u_j - u_i)) / (a_a (p_a/p_b)^(-(gamma-1)/(2 gamma)) + a_b))^(2 gamma/(gamma-1))

with (a, b) the states ordered by pressure. phi(p~) >= 0 up to round-off, so
p~ is an upper bound of the star pressure.
*/
func (s *Solver[T]) pStarTwoRarefaction(ri, rj Primitive[T]) T {
	var (
		g         = s.gc.gamma
		factor    = (g - 1.) * 0.5
		// clipped at zero when the velocity jump opens a vacuum
		numerator = ri.A.Add(rj.A).Sub(rj.U.Sub(ri.U).Scale(factor)).PositivePart()
		// state "a" has the lower pressure, ties go to j
		pA          = ri.P.Select(utils.Less, rj.P, ri.P, rj.P)
		aA          = ri.P.Select(utils.Less, rj.P, ri.A, rj.A)
		pB          = ri.P.Select(utils.Less, rj.P, rj.P, ri.P)
		aB          = ri.P.Select(utils.Less, rj.P, rj.A, ri.A)
		denominator = aA.Mul(pA.Div(pB).Pow(-factor * s.gc.gammaInverse)).Add(aB)
		exponent    = 2. * g * s.gc.gammaMinusOneInverse
	)
	return pB.Mul(numerator.Div(denominator).Pow(exponent))
}

package riemann

import (
	"github.com/notargets/wavespeed/utils"
)

// shockAndExpansionDensity estimates the density behind a shock (at the
// lower pressure bound pLo) and behind an expansion (at pHi) for the lower
// and higher pressure input states
func (s *Solver[T]) shockAndExpansionDensity(pMin, pMax, rhoPMin, rhoPMax, pLo, pHi T) (rhoPMinShk, rhoPMaxShk, rhoPMinExp, rhoPMaxExp T) {
	var (
		mu2 = s.gc.gm1OverGp1
	)
	rhoPMinShk = rhoPMin.Mul(pMin.Scale(mu2).Add(pLo)).Div(pLo.Scale(mu2).Add(pMin))
	rhoPMaxShk = rhoPMax.Mul(pMax.Scale(mu2).Add(pLo)).Div(pLo.Scale(mu2).Add(pMax))
	rhoPMinExp = rhoPMin.Mul(pHi.Div(pMin).Pow(s.gc.gammaInverse))
	rhoPMaxExp = rhoPMax.Mul(pHi.Div(pMax).Pow(s.gc.gammaInverse))
	return
}

/*
ComputeBounds derives the admissible region for the greedy line search from
the final bracket:

  - two expansions, pLo <= p* <= pHi <= p_min: the density may fall to the
    expansion densities
  - shock and expansion, p_min <= pLo <= p* <= pHi <= p_max
  - two shocks, p_max <= pLo: the density may rise to the shock densities

All six candidates enter one min/max reduction, which covers every case.
The specific entropy is s = p rho^(-gamma)/(gamma-1), the Harten type entropy
is s_alpha = (p rho/(gamma-1))^(1/(gamma+1)).
*/
func (s *Solver[T]) ComputeBounds(ri, rj Primitive[T], pLo, pHi T) (b Bounds[T]) {
	var (
		pMin    = ri.P.Min(rj.P)
		pMax    = ri.P.Max(rj.P)
		rhoPMin = ri.P.Select(utils.Less, rj.P, ri.Rho, rj.Rho)
		rhoPMax = ri.P.Select(utils.Less, rj.P, rj.Rho, ri.Rho)
	)
	rhoPMinShk, rhoPMaxShk, rhoPMinExp, rhoPMaxExp := s.shockAndExpansionDensity(pMin, pMax, rhoPMin, rhoPMax, pLo, pHi)

	b.RhoMin = rhoPMin.Min(rhoPMax).Min(rhoPMinExp.Min(rhoPMaxExp))
	b.RhoMax = rhoPMin.Max(rhoPMax).Max(rhoPMinShk.Max(rhoPMaxShk))

	var (
		g       = s.gc.gamma
		rhoEI   = ri.P.Scale(s.gc.gammaMinusOneInverse)
		sI      = rhoEI.Mul(ri.Rho.Pow(-g))
		sAlphaI = rhoEI.Mul(ri.Rho).Pow(s.gc.gammaPlusOneInverse)
		rhoEJ   = rj.P.Scale(s.gc.gammaMinusOneInverse)
		sJ      = rhoEJ.Mul(rj.Rho.Pow(-g))
		sAlphaJ = rhoEJ.Mul(rj.Rho).Pow(s.gc.gammaPlusOneInverse)
	)
	b.SMin = sI.Min(sJ)
	b.SAlphaAvg = sAlphaI.Add(sAlphaJ).Scale(0.5)
	b.SAlphaFlux = ri.U.Mul(sAlphaI).Sub(rj.U.Mul(sAlphaJ)).Scale(0.5)
	return
}

// Relax widens the entropy bounds by the factor (1 - hd)
func (b Bounds[T]) Relax(hd T) (r Bounds[T]) {
	factor := utils.Splat[T](1).Sub(hd)
	r = b
	r.SMin = b.SMin.Mul(factor)
	r.SAlphaAvg = b.SAlphaAvg.Mul(factor)
	r.SAlphaFlux = b.SAlphaFlux.Mul(factor)
	return
}

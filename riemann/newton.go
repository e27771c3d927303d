package riemann

import (
	"math"

	"github.com/notargets/wavespeed/utils"
)

/*
QuadraticNewtonStep tightens a bracket p1 <= p_star <= p2 of the root of a
monotone increasing, concave function phi. Each end moves to the root of the
quadratic Hermite interpolant built from the values and slopes at both ends:

	t1 = p1 - 2 phi(p1) / (phi'(p1) + sqrt(phi'(p1)^2 - 4 phi(p1) phi[p1,p1,p2]))
	t2 = p2 - 2 phi(p2) / (phi'(p2) + sqrt(phi'(p2)^2 - 4 phi(p2) phi[p1,p2,p2]))

For such a phi the left end only moves right and the right end only moves
left. The result is clamped to the old bracket so it can neither grow nor
invert. The step does not check phi at the new ends: on very wide brackets
the cancellation in the divided differences can move an end across the root,
and the caller must verify the sign of phi before trusting the new bracket.
*/
func QuadraticNewtonStep[T utils.Number[T]](p1, p2, phi1, phi2, dphi1, dphi2 T) (t1, t2 T) {
	var (
		zero = utils.Splat[T](0)
		// divided differences
		scaling = utils.Splat[T](1).Div(p2.Sub(p1).Shift(machineEpsilon))
		dd12    = phi2.Sub(phi1).Mul(scaling)
		dd112   = dd12.Sub(dphi1).Mul(scaling)
		dd122   = dphi2.Sub(dd12).Mul(scaling)
		disc1   = dphi1.Mul(dphi1).Sub(phi1.Mul(dd112).Scale(4.)).PositivePart()
		disc2   = dphi2.Mul(dphi2).Sub(phi2.Mul(dd122).Scale(4.)).PositivePart()
		den1    = dphi1.Add(disc1.Sqrt())
		den2    = dphi2.Add(disc2.Sqrt())
	)
	// a vanishing denominator leaves that end where it is
	t1 = p1.Sub(den1.Select(utils.Equal, zero, zero, phi1.Scale(2.).Div(den1)))
	t2 = p2.Sub(den2.Select(utils.Equal, zero, zero, phi2.Scale(2.).Div(den2)))

	t1 = t1.Max(p1).Min(p2)
	t2 = t2.Max(p1).Min(p2)
	t1, t2 = t1.Min(t2), t2.Max(t1)
	return
}

var machineEpsilon = math.Nextafter(1., 2.) - 1.

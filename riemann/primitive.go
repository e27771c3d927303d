package riemann

import (
	"fmt"

	"github.com/notargets/wavespeed/utils"
)

// NewPrimitive completes (rho, u, p) with the ideal gas speed of sound
func (s *Solver[T]) NewPrimitive(rho, u, p T) Primitive[T] {
	return Primitive[T]{
		Rho: rho,
		U:   u,
		P:   p,
		A:   p.Div(rho).Scale(s.gc.gamma).Sqrt(),
	}
}

/*
ProjectState projects the conserved state U = (rho, m_1..m_d, E) onto the 1D
Riemann problem along the unit vector n. The momentum component along n is
kept, the kinetic energy of the transverse momentum is removed from the total
energy.
*/
func (s *Solver[T]) ProjectState(U, n []T) (ps Primitive[T]) {
	var (
		dim = len(n)
	)
	if s.cfg.Validate {
		s.checkDirection(U, n)
	}
	var (
		rho        = U[0]
		rhoInverse = utils.Splat[T](1).Div(rho)
		E          = U[dim+1]
		mn         = n[0].Mul(U[1])
	)
	for k := 1; k < dim; k++ {
		mn = mn.Add(n[k].Mul(U[1+k]))
	}
	perp := U[1].Sub(mn.Mul(n[0]))
	perpSquare := perp.Mul(perp)
	for k := 1; k < dim; k++ {
		perp = U[1+k].Sub(mn.Mul(n[k]))
		perpSquare = perpSquare.Add(perp.Mul(perp))
	}
	var (
		Eprojected = E.Sub(perpSquare.Mul(rhoInverse).Scale(0.5))
		p          = Eprojected.Sub(mn.Mul(mn).Mul(rhoInverse).Scale(0.5)).Scale(s.gc.gamma - 1.)
	)
	ps = Primitive[T]{
		Rho: rho,
		U:   mn.Mul(rhoInverse),
		P:   p,
		A:   p.Mul(rhoInverse).Scale(s.gc.gamma).Sqrt(),
	}
	if s.cfg.Validate {
		if ps.Rho.MinLane() <= 0 || ps.P.MinLane() <= 0 {
			panic(fmt.Errorf("%w: rho = %v, p = %v", ErrInadmissibleState, ps.Rho, ps.P))
		}
	}
	return
}

func (s *Solver[T]) checkDirection(U, n []T) {
	var (
		dim = len(n)
	)
	if dim < 1 || dim > MaxDim || len(U) != dim+2 {
		panic(fmt.Errorf("%w: len(U) = %d, len(n) = %d", ErrDimension, len(U), dim))
	}
	nn := n[0].Mul(n[0])
	for k := 1; k < dim; k++ {
		nn = nn.Add(n[k].Mul(n[k]))
	}
	if nn.MinLane() == 0 || nn.Shift(-1).Abs().MaxLane() > 1.e-8 {
		panic(fmt.Errorf("%w: |n|^2 = %v", ErrDirection, nn))
	}
}

// Pressure of the conserved state for the ideal gas
func (s *Solver[T]) Pressure(c Conserved[T]) T {
	return c.InternalEnergy().Scale(s.gc.gamma - 1.)
}

/*
NormalFlux is the Euler flux f(U) contracted with n:

	(m.n, m (m.n)/rho + p n, (E + p) (m.n)/rho)
*/
func (s *Solver[T]) NormalFlux(c Conserved[T], n [MaxDim]T) (F Conserved[T]) {
	var (
		p          = s.Pressure(c)
		rhoInverse = utils.Splat[T](1).Div(c.Rho)
		mn         = c.M[0].Mul(n[0])
	)
	for k := 1; k < MaxDim; k++ {
		mn = mn.Add(c.M[k].Mul(n[k]))
	}
	un := mn.Mul(rhoInverse)
	F.Rho = mn
	for k := range F.M {
		F.M[k] = c.M[k].Mul(un).Add(p.Mul(n[k]))
	}
	F.E = c.E.Add(p).Mul(un)
	return
}

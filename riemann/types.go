package riemann

import (
	"github.com/notargets/wavespeed/utils"
)

// MaxDim is the largest spatial dimension of a conserved state
const MaxDim = 3

// Primitive is the state of the projected 1D Riemann problem
type Primitive[T utils.Number[T]] struct {
	Rho T // Density
	U   T // Velocity along the edge direction
	P   T // Pressure
	A   T // Speed of sound
}

// Conserved is (rho, rho u_1..rho u_d, E). Momentum components beyond the
// spatial dimension are zero.
type Conserved[T utils.Number[T]] struct {
	Rho T
	M   [MaxDim]T
	E   T
}

// ConservedFrom reads the ordered tuple U of length dim+2
func ConservedFrom[T utils.Number[T]](U []T, dim int) (c Conserved[T]) {
	c.Rho = U[0]
	for k := 0; k < dim; k++ {
		c.M[k] = U[1+k]
	}
	c.E = U[dim+1]
	return
}

func (c Conserved[T]) Add(b Conserved[T]) (r Conserved[T]) {
	r.Rho = c.Rho.Add(b.Rho)
	for k := range r.M {
		r.M[k] = c.M[k].Add(b.M[k])
	}
	r.E = c.E.Add(b.E)
	return
}

func (c Conserved[T]) Sub(b Conserved[T]) (r Conserved[T]) {
	r.Rho = c.Rho.Sub(b.Rho)
	for k := range r.M {
		r.M[k] = c.M[k].Sub(b.M[k])
	}
	r.E = c.E.Sub(b.E)
	return
}

func (c Conserved[T]) Scale(s float64) (r Conserved[T]) {
	r.Rho = c.Rho.Scale(s)
	for k := range r.M {
		r.M[k] = c.M[k].Scale(s)
	}
	r.E = c.E.Scale(s)
	return
}

// AddScaled returns c + t*b
func (c Conserved[T]) AddScaled(t T, b Conserved[T]) (r Conserved[T]) {
	r.Rho = c.Rho.Add(t.Mul(b.Rho))
	for k := range r.M {
		r.M[k] = c.M[k].Add(t.Mul(b.M[k]))
	}
	r.E = c.E.Add(t.Mul(b.E))
	return
}

func (c Conserved[T]) MomentumSquare() (m2 T) {
	m2 = c.M[0].Mul(c.M[0])
	for k := 1; k < MaxDim; k++ {
		m2 = m2.Add(c.M[k].Mul(c.M[k]))
	}
	return
}

// InternalEnergy is rho*e = E - |m|^2/(2 rho)
func (c Conserved[T]) InternalEnergy() T {
	return c.E.Sub(c.MomentumSquare().Div(c.Rho).Scale(0.5))
}

// Bracket encloses the star pressure, PLo <= p_star <= PHi
type Bracket[T utils.Number[T]] struct {
	PLo, PHi T
	// Iterations is the number of Newton steps taken, -1 if iteration is
	// disabled
	Iterations int
}

// Bounds constrain the greedy line search
type Bounds[T utils.Number[T]] struct {
	RhoMin, RhoMax T
	SMin           T // Minimum specific entropy
	SAlphaAvg      T // Average of the Harten entropy over both states
	SAlphaFlux     T // Harten entropy flux between both states
}

// EdgeResult is the output of one edge evaluation
type EdgeResult[T utils.Number[T]] struct {
	LambdaMax T // Upper bound on the maximal signal speed
	PStar     T // Approximate star pressure, never below the true one
	// Iterations is diagnostic, -1 when Newton iteration is disabled
	Iterations int
}

package sod_shock_tube

import (
	"math"
)

// State is a primitive 1D state
type State struct {
	Rho, U, P float64
}

func (s State) SoundSpeed(gamma float64) float64 {
	return math.Sqrt(gamma * s.P / s.Rho)
}

var (
	SodLeft  = State{Rho: 1, U: 0, P: 1}
	SodRight = State{Rho: 0.125, U: 0, P: 0.1}
)

/*
SOD_calc returns the analytic Sod shock tube solution at time t on [0,1] with
the diaphragm at 0.5, sampled just left and right of each wave, along with
the post shock pressure and the positions of the rarefaction head and of the
shock.
*/
func SOD_calc(t float64) (X, Rho, P, U, E []float64, P_post, x1, x4 float64) {
	var (
		x_min, x_max        = 0., 1.
		x0, rho_l, P_l, u_l = 0.5 * (x_max + x_min), SodLeft.Rho, SodLeft.P, SodLeft.U
		rho_r, P_r, u_r     = SodRight.Rho, SodRight.P, SodRight.U
		gamma               = 1.4
		mu                  = math.Sqrt((gamma - 1) / (gamma + 1))
		c_l                 = math.Sqrt(gamma * P_l / rho_l)
	)
	P_post = ExactStarPressure(SodLeft, SodRight, gamma)
	var (
		v_post     = 2 * (math.Sqrt(gamma) / (gamma - 1)) * (1 - math.Pow(P_post, (gamma-1)/(2*gamma)))
		rho_post   = rho_r * (((P_post / P_r) + mu*mu) / (1 + mu*mu*(P_post/P_r)))
		v_shock    = v_post * (rho_post / rho_r) / ((rho_post / rho_r) - 1.)
		rho_middle = rho_l * math.Pow(P_post/P_l, 1./gamma)
		c_2        = c_l - 0.5*(gamma-1.)*v_post
		x2, x3     float64
	)
	//Key Positions
	x1 = x0 - c_l*t
	x2 = x0 + t*(v_post-c_2)
	x3 = x0 + v_post*t
	x4 = x0 + v_shock*t
	tol := 0.00000001
	X = []float64{
		x_min,
		x1 - tol, x1 + tol,
		x2 - tol, x2 + tol,
		x3 - tol, x3 + tol,
		x4 - tol, x4 + tol,
		x_max,
	}
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		switch {
		case x < x1:
			Rho[i] = rho_l
			P[i] = P_l
			U[i] = u_l
		case x1 <= x && x <= x2:
			c := mu*mu*((x0-X[i])/t) + (1.-mu*mu)*c_l
			Rho[i] = rho_l * math.Pow((c/c_l), 2/(gamma-1))
			P[i] = P_l * math.Pow(Rho[i]/rho_l, gamma)
			U[i] = (1. - mu*mu) * ((-(x0 - X[i]) / t) + c_l)
		case x2 <= x && x <= x3:
			Rho[i] = rho_middle
			P[i] = P_post
			U[i] = v_post
		case x3 <= x && x <= x4:
			Rho[i] = rho_post
			P[i] = P_post
			U[i] = v_post
		case x4 < x:
			Rho[i] = rho_r
			P[i] = P_r
			U[i] = u_r
		}
		E[i] = P[i] / ((gamma - 1.) * Rho[i])
	}
	return
}

// fzero bisects an increasing function f on [lo, hi], f(lo) <= 0 <= f(hi)
func fzero(f func(P float64) (y float64), lo, hi float64) float64 {
	for n := 0; n < 200; n++ {
		mid := 0.5 * (lo + hi)
		if mid == lo || mid == hi {
			break
		}
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// exactPressureFunction is the branch of the exact pressure relation
// belonging to state s, in the form given by Toro
func exactPressureFunction(s State, P, gamma float64) (f float64) {
	var (
		a = s.SoundSpeed(gamma)
	)
	if P > s.P {
		var (
			A = 2. / ((gamma + 1.) * s.Rho)
			B = (gamma - 1.) / (gamma + 1.) * s.P
		)
		f = (P - s.P) * math.Sqrt(A/(P+B))
		return
	}
	f = 2. * a / (gamma - 1.) * (math.Pow(P/s.P, (gamma-1.)/(2.*gamma)) - 1.)
	return
}

/*
ExactStarPressure solves the exact Riemann problem between left and right
for the star pressure by bisection to round-off. A vacuum returns zero.
*/
func ExactStarPressure(left, right State, gamma float64) (pStar float64) {
	var (
		du = right.U - left.U
		f  = func(P float64) float64 {
			return exactPressureFunction(left, P, gamma) + exactPressureFunction(right, P, gamma) + du
		}
		hi = math.Max(left.P, right.P)
	)
	if f(0) >= 0 {
		return 0
	}
	for f(hi) < 0 {
		hi *= 2
	}
	pStar = fzero(f, 0, hi)
	return
}

// ExactWaveSpeeds returns the speeds of the fastest left and right going
// signals of the exact Riemann solution
func ExactWaveSpeeds(left, right State, gamma float64) (lambda1, lambda3 float64) {
	var (
		pStar  = ExactStarPressure(left, right, gamma)
		factor = (gamma + 1.) / (2. * gamma)
		aL, aR = left.SoundSpeed(gamma), right.SoundSpeed(gamma)
	)
	lambda1 = left.U - aL*math.Sqrt(1+factor*math.Max(0, pStar/left.P-1))
	lambda3 = right.U + aR*math.Sqrt(1+factor*math.Max(0, pStar/right.P-1))
	return
}

// MaxSignalSpeed is max(lambda3^+, lambda1^-), the quantity the estimator bounds
func MaxSignalSpeed(left, right State, gamma float64) float64 {
	lambda1, lambda3 := ExactWaveSpeeds(left, right, gamma)
	return math.Max(math.Max(lambda3, 0), math.Max(-lambda1, 0))
}

package riemann

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/wavespeed/sod_shock_tube"
	"github.com/notargets/wavespeed/utils"
)

func newTestSolver(t *testing.T, cfg Config) *Solver[utils.Scalar] {
	s, err := NewSolver[utils.Scalar](cfg)
	require.NoError(t, err)
	return s
}

func converging() Config {
	cfg := DefaultConfig()
	cfg.NewtonMaxIter = 20
	cfg.NewtonTolerance = 1.e-10
	cfg.Validate = true
	return cfg
}

// conserved builds (rho, rho v, E) for a velocity of any dimension
func conserved(gamma, rho, p float64, v ...float64) (U []utils.Scalar) {
	var (
		dim = len(v)
		v2  float64
	)
	U = make([]utils.Scalar, dim+2)
	U[0] = utils.Scalar(rho)
	for k, vk := range v {
		U[1+k] = utils.Scalar(rho * vk)
		v2 += vk * vk
	}
	U[dim+1] = utils.Scalar(p/(gamma-1) + 0.5*rho*v2)
	return
}

func randomPrimitive(rnd *rand.Rand) (rho, u, p float64) {
	rho = math.Pow(10, -2+4*rnd.Float64())
	u = -5 + 10*rnd.Float64()
	p = math.Pow(10, -2+4*rnd.Float64())
	return
}

func randomDirection(rnd *rand.Rand, dim int) (n []utils.Scalar) {
	var (
		norm float64
		raw  = make([]float64, dim)
	)
	for norm < 1.e-3 {
		norm = 0
		for k := range raw {
			raw[k] = rnd.NormFloat64()
			norm += raw[k] * raw[k]
		}
	}
	norm = math.Sqrt(norm)
	n = make([]utils.Scalar, dim)
	for k := range n {
		n[k] = utils.Scalar(raw[k] / norm)
	}
	return
}

func TestConfig(t *testing.T) {
	{ // Defaults are valid
		assert.NoError(t, DefaultConfig().Check())
	}
	{ // Contract violations are reported with their sentinel
		check := func(mod func(cfg *Config), target error) {
			cfg := DefaultConfig()
			mod(&cfg)
			_, err := NewSolver[utils.Scalar](cfg)
			assert.True(t, errors.Is(err, target), "got %v, want %v", err, target)
		}
		check(func(cfg *Config) { cfg.Gamma = 1 }, ErrGamma)
		check(func(cfg *Config) { cfg.Gamma = math.NaN() }, ErrGamma)
		check(func(cfg *Config) { cfg.Gamma = math.Inf(1) }, ErrGamma)
		check(func(cfg *Config) { cfg.Covolume = 0.001 }, ErrCovolume)
		check(func(cfg *Config) { cfg.NewtonMaxIter = -1 }, ErrNewtonIterations)
		check(func(cfg *Config) { cfg.NewtonTolerance = 0 }, ErrNewtonTolerance)
		check(func(cfg *Config) { cfg.GreedyThreshold = 1 }, ErrGreedyThreshold)
		check(func(cfg *Config) { cfg.Greedy, cfg.LineSearchMaxIter = true, 0 }, ErrLineSearch)
		assert.Panics(t, func() {
			cfg := DefaultConfig()
			cfg.Covolume = 1
			MustNewSolver[utils.Lanes4](cfg)
		})
	}
}

func TestSodShockTube(t *testing.T) {
	var (
		cfg = converging()
		s   = newTestSolver(t, cfg)
	)
	{ // Primitive states
		var (
			ri = s.NewPrimitive(1, 0, 1)
			rj = s.NewPrimitive(0.125, 0, 0.1)
			r  = s.Compute(ri, rj)
		)
		assert.InDelta(t, 1.75216, float64(r.LambdaMax), 1.e-3)
		assert.GreaterOrEqual(t, r.Iterations, 2)
		assert.LessOrEqual(t, r.Iterations, cfg.NewtonMaxIter)
		pStar := sod_shock_tube.ExactStarPressure(sod_shock_tube.SodLeft, sod_shock_tube.SodRight, cfg.Gamma)
		assert.InDelta(t, pStar, float64(r.PStar), 1.e-8)
		assert.GreaterOrEqual(t, float64(r.PStar), pStar*(1-1.e-12))
	}
	{ // Conserved states projected along axis 0, in one, two and three dimensions
		for dim := 1; dim <= MaxDim; dim++ {
			var (
				v  = make([]float64, dim)
				n  = make([]utils.Scalar, dim)
				Ui = conserved(cfg.Gamma, 1, 1, v...)
				Uj = conserved(cfg.Gamma, 0.125, 0.1, v...)
			)
			n[0] = 1
			r := s.ComputeFromStates(Ui, Uj, n, 0)
			assert.InDelta(t, 1.75216, float64(r.LambdaMax), 1.e-3)
			assert.GreaterOrEqual(t, r.Iterations, 2)
		}
	}
}

func TestIdenticalStates(t *testing.T) {
	s := newTestSolver(t, converging())
	rnd := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		rho, u, p := randomPrimitive(rnd)
		ri := s.NewPrimitive(utils.Scalar(rho), utils.Scalar(u), utils.Scalar(p))
		r := s.Compute(ri, ri)
		assert.InDelta(t, p, float64(r.PStar), 1.e-13*p)
		assert.Equal(t, 0, r.Iterations)
		assert.InDelta(t, math.Abs(u)+float64(ri.A), float64(r.LambdaMax), 1.e-14*(math.Abs(u)+float64(ri.A)))
	}
}

func TestZeroIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NewtonMaxIter = 0
	s := newTestSolver(t, cfg)
	{ // Sod, where the two-rarefaction estimate lies below p_max
		var (
			ri     = s.NewPrimitive(1, 0, 1)
			rj     = s.NewPrimitive(0.125, 0, 0.1)
			r      = s.Compute(ri, rj)
			pTilde = s.pStarTwoRarefaction(ri, rj)
		)
		assert.Equal(t, -1, r.Iterations)
		assert.Equal(t, pTilde, r.PStar)
		assert.Equal(t, s.computeLambda(ri, rj, pTilde), r.LambdaMax)
		assert.InDelta(t, 0.30677, float64(r.PStar), 1.e-5)
		assert.Greater(t, float64(r.LambdaMax), 1.75216)
	}
	{ // The estimate is never below the converged one
		sc := newTestSolver(t, converging())
		rnd := rand.New(rand.NewSource(11))
		for n := 0; n < 500; n++ {
			rho1, u1, p1 := randomPrimitive(rnd)
			rho2, u2, p2 := randomPrimitive(rnd)
			var (
				ri = s.NewPrimitive(utils.Scalar(rho1), utils.Scalar(u1), utils.Scalar(p1))
				rj = s.NewPrimitive(utils.Scalar(rho2), utils.Scalar(u2), utils.Scalar(p2))
				r0 = s.Compute(ri, rj)
				rc = sc.Compute(ri, rj)
			)
			assert.Equal(t, -1, r0.Iterations)
			assert.GreaterOrEqual(t, float64(r0.LambdaMax), float64(rc.LambdaMax)*(1-1.e-12))
		}
	}
}

func TestBracketRefinement(t *testing.T) {
	var (
		cfg = converging()
		s   = newTestSolver(t, cfg)
		rnd = rand.New(rand.NewSource(3))
	)
	for n := 0; n < 2000; n++ {
		rho1, u1, p1 := randomPrimitive(rnd)
		rho2, u2, p2 := randomPrimitive(rnd)
		var (
			ri       = s.NewPrimitive(utils.Scalar(rho1), utils.Scalar(u1), utils.Scalar(p1))
			rj       = s.NewPrimitive(utils.Scalar(rho2), utils.Scalar(u2), utils.Scalar(p2))
			pLo, pHi = s.initialBracket(ri, rj)
			gap, _   = s.computeGap(ri, rj, pLo, pHi)
		)
		require.LessOrEqual(t, float64(pLo), float64(pHi))
		require.GreaterOrEqual(t, float64(pLo), 0.)
		for i := 0; i < cfg.NewtonMaxIter; i++ {
			if float64(gap) <= cfg.NewtonTolerance {
				break
			}
			lo, hi := QuadraticNewtonStep(pLo, pHi,
				s.phi(ri, rj, pLo), s.phi(ri, rj, pHi),
				s.dphi(ri, rj, pLo), s.dphi(ri, rj, pHi))
			// the bracket only shrinks and never inverts
			assert.True(t, pLo <= lo && lo <= hi && hi <= pHi)
			assert.GreaterOrEqual(t, float64(lo), 0.)
			pLo, pHi = lo, hi
			gapNew, _ := s.computeGap(ri, rj, pLo, pHi)
			assert.LessOrEqual(t, float64(gapNew), float64(gap)*(1+1.e-12)+1.e-14)
			gap = gapNew
		}
		b := s.ComputeBracket(ri, rj)
		assert.LessOrEqual(t, b.Iterations, cfg.NewtonMaxIter)
		assert.LessOrEqual(t, float64(b.PLo), float64(b.PHi))
	}
}

func TestSoundness(t *testing.T) {
	var (
		cfg = DefaultConfig()
		rnd = rand.New(rand.NewSource(5))
	)
	cfg.Validate = true
	for _, iter := range []int{0, 1, 2, 4} {
		cfg.NewtonMaxIter = iter
		s := newTestSolver(t, cfg)
		for n := 0; n < 2000; n++ {
			rho1, u1, p1 := randomPrimitive(rnd)
			rho2, u2, p2 := randomPrimitive(rnd)
			var (
				ri    = s.NewPrimitive(utils.Scalar(rho1), utils.Scalar(u1), utils.Scalar(p1))
				rj    = s.NewPrimitive(utils.Scalar(rho2), utils.Scalar(u2), utils.Scalar(p2))
				r     = s.Compute(ri, rj)
				left  = sod_shock_tube.State{Rho: rho1, U: u1, P: p1}
				right = sod_shock_tube.State{Rho: rho2, U: u2, P: p2}
				exact = sod_shock_tube.MaxSignalSpeed(left, right, cfg.Gamma)
				pStar = sod_shock_tube.ExactStarPressure(left, right, cfg.Gamma)
			)
			assert.GreaterOrEqual(t, float64(r.LambdaMax), 0.)
			assert.GreaterOrEqual(t, float64(r.LambdaMax), exact*(1-1.e-12))
			assert.GreaterOrEqual(t, float64(r.PStar), pStar*(1-1.e-12))
			// the outer acoustic speeds are always covered
			assert.GreaterOrEqual(t, float64(r.LambdaMax)*(1+1.e-12), math.Max(u2+float64(rj.A), float64(ri.A)-u1))
		}
	}
	{ // Twelve decades of density and pressure, strong collisions and expansions
		widePrimitive := func() (rho, u, p float64) {
			rho = math.Pow(10, -6+12*rnd.Float64())
			u = -1000 + 2000*rnd.Float64()
			p = math.Pow(10, -6+12*rnd.Float64())
			return
		}
		cfg.Validate = false
		for _, iter := range []int{0, 1, 2, 4} {
			cfg.NewtonMaxIter = iter
			s := newTestSolver(t, cfg)
			for n := 0; n < 20000; n++ {
				rho1, u1, p1 := widePrimitive()
				rho2, u2, p2 := widePrimitive()
				var (
					r = s.Compute(
						s.NewPrimitive(utils.Scalar(rho1), utils.Scalar(u1), utils.Scalar(p1)),
						s.NewPrimitive(utils.Scalar(rho2), utils.Scalar(u2), utils.Scalar(p2)))
					left  = sod_shock_tube.State{Rho: rho1, U: u1, P: p1}
					right = sod_shock_tube.State{Rho: rho2, U: u2, P: p2}
					exact = sod_shock_tube.MaxSignalSpeed(left, right, cfg.Gamma)
					pStar = sod_shock_tube.ExactStarPressure(left, right, cfg.Gamma)
				)
				if !assert.GreaterOrEqual(t, float64(r.LambdaMax), exact*(1-1.e-8), "%v %v", left, right) {
					return
				}
				assert.GreaterOrEqual(t, float64(r.PStar), pStar*(1-1.e-8))
			}
		}
	}
}

// A wide initial bracket whose first Newton step overshoots the root must
// not lose the upper bound
func TestOvershootingStep(t *testing.T) {
	var (
		left   = sod_shock_tube.State{Rho: 4.6996e6, U: -0.0404, P: 6.07e-10}
		right  = sod_shock_tube.State{Rho: 33553, U: -336.53, P: 1.86e-7}
		gamma  = 1.4
		exact  = sod_shock_tube.MaxSignalSpeed(left, right, gamma)
		pStar  = sod_shock_tube.ExactStarPressure(left, right, gamma)
		cfgs   = []Config{DefaultConfig(), converging()}
		lambda []float64
	)
	require.InDelta(t, 3.88e9, pStar, 0.01e9)
	require.InDelta(t, 35.8, exact, 0.1)
	for _, cfg := range cfgs {
		cfg.Validate = true
		var (
			s  = newTestSolver(t, cfg)
			ri = s.NewPrimitive(utils.Scalar(left.Rho), utils.Scalar(left.U), utils.Scalar(left.P))
			rj = s.NewPrimitive(utils.Scalar(right.Rho), utils.Scalar(right.U), utils.Scalar(right.P))
			r  EdgeResult[utils.Scalar]
		)
		pLo, pHi := s.initialBracket(ri, rj)
		// the two-rarefaction estimate is far above the star pressure
		require.Greater(t, float64(pHi), 1.e30)
		require.Less(t, float64(pLo), pStar)
		assert.NotPanics(t, func() { r = s.Compute(ri, rj) })
		assert.False(t, math.IsNaN(float64(r.LambdaMax)) || math.IsInf(float64(r.LambdaMax), 0))
		assert.GreaterOrEqual(t, float64(r.LambdaMax), exact*(1-1.e-12))
		assert.GreaterOrEqual(t, float64(r.PStar), pStar*(1-1.e-12))
		b := s.ComputeBracket(ri, rj)
		assert.LessOrEqual(t, float64(b.PLo), pStar*(1+1.e-8))
		assert.LessOrEqual(t, float64(b.PLo), float64(b.PHi))
		lambda = append(lambda, float64(r.LambdaMax))
	}
	// more steps never loosen the bound
	assert.LessOrEqual(t, lambda[1], lambda[0]*(1+1.e-12))
}

func TestVacuum(t *testing.T) {
	s := newTestSolver(t, converging())
	var (
		ri = s.NewPrimitive(1, -20, 1)
		rj = s.NewPrimitive(1, 20, 1)
		r  = s.Compute(ri, rj)
	)
	assert.False(t, utils.IsNan(r.LambdaMax))
	assert.Equal(t, utils.Scalar(0), r.PStar)
	assert.InDelta(t, 20+math.Sqrt(1.4), float64(r.LambdaMax), 1.e-12)
}

func TestSwapSymmetry(t *testing.T) {
	var (
		cfg = converging()
		rnd = rand.New(rand.NewSource(13))
	)
	for _, greedy := range []bool{false, true} {
		cfg.Greedy = greedy
		s := newTestSolver(t, cfg)
		for n := 0; n < 600; n++ {
			dim := 1 + n%MaxDim
			rho1, _, p1 := randomPrimitive(rnd)
			rho2, _, p2 := randomPrimitive(rnd)
			var (
				v1   = make([]float64, dim)
				v2   = make([]float64, dim)
				nDir = randomDirection(rnd, dim)
				nNeg = make([]utils.Scalar, dim)
			)
			for k := 0; k < dim; k++ {
				v1[k], v2[k] = rnd.NormFloat64(), rnd.NormFloat64()
				nNeg[k] = -nDir[k]
			}
			var (
				Ui = conserved(cfg.Gamma, rho1, p1, v1...)
				Uj = conserved(cfg.Gamma, rho2, p2, v2...)
				r  = s.ComputeFromStates(Ui, Uj, nDir, 0)
				rs = s.ComputeFromStates(Uj, Ui, nNeg, 0)
			)
			assert.Equal(t, r.PStar, rs.PStar)
			assert.Equal(t, r.Iterations, rs.Iterations)
			assert.InDelta(t, float64(r.LambdaMax), float64(rs.LambdaMax), 1.e-12*float64(r.LambdaMax))
		}
	}
}

func TestDirectionContract(t *testing.T) {
	var (
		cfg = converging()
		s   = newTestSolver(t, cfg)
		Ui  = conserved(cfg.Gamma, 1, 1, 0, 0)
		Uj  = conserved(cfg.Gamma, 0.125, 0.1, 0, 0)
	)
	assert.Panics(t, func() { s.ComputeFromStates(Ui, Uj, []utils.Scalar{0, 0}, 0) })
	assert.Panics(t, func() { s.ComputeFromStates(Ui, Uj, []utils.Scalar{1, 1}, 0) })
	assert.Panics(t, func() { s.ComputeFromStates(Ui, Uj, []utils.Scalar{1}, 0) })
	assert.Panics(t, func() { s.ComputeFromStates(Ui, conserved(cfg.Gamma, 1, -1, 0, 0), []utils.Scalar{1, 0}, 0) })
	assert.NotPanics(t, func() { s.ComputeFromStates(Ui, Uj, []utils.Scalar{0.6, 0.8}, 0) })
	{ // Without validation the checks are skipped
		cfg.Validate = false
		sv := newTestSolver(t, cfg)
		assert.NotPanics(t, func() { sv.ComputeFromStates(Ui, Uj, []utils.Scalar{1, 1}, 0) })
	}
}

func TestProjection(t *testing.T) {
	var (
		cfg = converging()
		s   = newTestSolver(t, cfg)
	)
	{ // Transverse momentum does not contribute to the projected pressure
		var (
			U  = conserved(cfg.Gamma, 2, 3, 1.5, -4, 0.5)
			ps = s.ProjectState(U, []utils.Scalar{0, 1, 0})
		)
		assert.Equal(t, utils.Scalar(2), ps.Rho)
		assert.InDelta(t, -4, float64(ps.U), 1.e-14)
		assert.InDelta(t, 3, float64(ps.P), 1.e-13)
		assert.InDelta(t, math.Sqrt(1.4*3/2), float64(ps.A), 1.e-14)
	}
	{ // Normal flux of a state at rest is the pressure along n
		var (
			c = ConservedFrom(conserved(cfg.Gamma, 1, 2.5, 0, 0), 2)
			F = s.NormalFlux(c, [MaxDim]utils.Scalar{0.6, 0.8, 0})
		)
		assert.Equal(t, utils.Scalar(0), F.Rho)
		assert.InDelta(t, 1.5, float64(F.M[0]), 1.e-14)
		assert.InDelta(t, 2.0, float64(F.M[1]), 1.e-14)
		assert.Equal(t, utils.Scalar(0), F.E)
	}
}

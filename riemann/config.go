package riemann

import (
	"fmt"
	"math"
)

// Config holds the constants of the estimator. A Config is fixed before the
// first edge is evaluated and is never mutated afterward.
type Config struct {
	Gamma    float64 // Adiabatic exponent, > 1
	Covolume float64 // Must be zero, only the ideal gas is implemented
	// Maximum number of quadratic Newton steps. Zero disables the iteration
	// and the two-rarefaction estimate is used directly.
	NewtonMaxIter   int
	NewtonTolerance float64 // Iteration stops once the wave speed gap is below this
	// Greedy enables the entropy-constrained minimization of the wave speed
	Greedy bool
	// GreedyThreshold is the density contrast (rho_max-rho_min)/rho_max
	// below which the greedy minimization is skipped
	GreedyThreshold float64
	// GreedyRelaxBounds relaxes the entropy bounds by the local length scale
	GreedyRelaxBounds bool
	LineSearchMaxIter int // Bisection steps in the greedy limiter
	// Validate turns on contract checks and post-condition assertions
	Validate bool
}

func DefaultConfig() Config {
	return Config{
		Gamma:             1.4,
		Covolume:          0,
		NewtonMaxIter:     2,
		NewtonTolerance:   1.e-10,
		Greedy:            false,
		GreedyThreshold:   0.1,
		GreedyRelaxBounds: false,
		LineSearchMaxIter: 16,
		Validate:          false,
	}
}

func (cfg Config) Check() (err error) {
	switch {
	case !(cfg.Gamma > 1) || math.IsInf(cfg.Gamma, 1):
		err = fmt.Errorf("%w: gamma = %v", ErrGamma, cfg.Gamma)
	case cfg.Covolume != 0:
		err = fmt.Errorf("%w: b = %v", ErrCovolume, cfg.Covolume)
	case cfg.NewtonMaxIter < 0:
		err = fmt.Errorf("%w: %d", ErrNewtonIterations, cfg.NewtonMaxIter)
	case !(cfg.NewtonTolerance > 0):
		err = fmt.Errorf("%w: %v", ErrNewtonTolerance, cfg.NewtonTolerance)
	case !(cfg.GreedyThreshold >= 0 && cfg.GreedyThreshold < 1):
		err = fmt.Errorf("%w: %v", ErrGreedyThreshold, cfg.GreedyThreshold)
	case cfg.Greedy && cfg.LineSearchMaxIter < 1:
		err = fmt.Errorf("%w: %d", ErrLineSearch, cfg.LineSearchMaxIter)
	}
	return
}

func (cfg Config) Print() {
	fmt.Printf("%8.5f\t\t= Gamma\n", cfg.Gamma)
	fmt.Printf("%8.5f\t\t= Covolume\n", cfg.Covolume)
	fmt.Printf("[%d]\t\t\t= Newton Max Iterations\n", cfg.NewtonMaxIter)
	fmt.Printf("%8.2e\t\t= Newton Tolerance\n", cfg.NewtonTolerance)
	fmt.Printf("[%v]\t\t\t= Greedy\n", cfg.Greedy)
	fmt.Printf("%8.5f\t\t= Greedy Threshold\n", cfg.GreedyThreshold)
	fmt.Printf("[%v]\t\t\t= Greedy Relax Bounds\n", cfg.GreedyRelaxBounds)
	fmt.Printf("[%v]\t\t\t= Validate\n", cfg.Validate)
}

// gasConstants are the gamma dependent factors used throughout the kernel
type gasConstants struct {
	gamma                float64
	gammaInverse         float64
	gammaMinusOneInverse float64
	gammaPlusOneInverse  float64
	gm1OverGp1           float64 // (gamma-1)/(gamma+1)
	shockFactor          float64 // (gamma+1)/(2 gamma)
}

func newGasConstants(gamma float64) gasConstants {
	return gasConstants{
		gamma:                gamma,
		gammaInverse:         1. / gamma,
		gammaMinusOneInverse: 1. / (gamma - 1.),
		gammaPlusOneInverse:  1. / (gamma + 1.),
		gm1OverGp1:           (gamma - 1.) / (gamma + 1.),
		shockFactor:          (gamma + 1.) * 0.5 / gamma,
	}
}

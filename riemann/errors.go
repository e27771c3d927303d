package riemann

import "errors"

// Configuration errors, reported by Config.Check and NewSolver
var (
	ErrGamma            = errors.New("riemann: adiabatic exponent must be greater than one")
	ErrCovolume         = errors.New("riemann: nonzero covolume is not implemented")
	ErrNewtonIterations = errors.New("riemann: newton iteration count must be non-negative")
	ErrNewtonTolerance  = errors.New("riemann: newton tolerance must be positive")
	ErrGreedyThreshold  = errors.New("riemann: greedy density threshold must lie in [0,1)")
	ErrLineSearch       = errors.New("riemann: line search iteration count must be positive")
)

// Contract and post-condition violations, raised as panics when
// Config.Validate is set
var (
	ErrDirection         = errors.New("riemann: direction must be a unit vector")
	ErrDimension         = errors.New("riemann: state and direction dimensions do not match")
	ErrPhiNegative       = errors.New("riemann: phi(p_star) is negative, invalid state in Riemann problem")
	ErrGreedyIncrease    = errors.New("riemann: greedy wave speed exceeds the non-greedy bound")
	ErrNaN               = errors.New("riemann: NaN in wave speed estimate")
	ErrInadmissibleState = errors.New("riemann: density and pressure must be positive")
)

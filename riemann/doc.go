/*
Package riemann estimates the maximal wave speed of the one dimensional
Riemann problem between two states of the compressible Euler equations. The
estimate sets the graph viscosity of an invariant domain preserving scheme:
it is evaluated once per edge per time step and is guaranteed never to be
below the true maximal signal speed.

The algorithm brackets the star pressure between p_min, p_max and the
two-rarefaction estimate, refines the bracket with a bounded number of
quadratic Newton steps and evaluates the extreme wave speeds at the upper end
of the bracket. An optional greedy pass shrinks the bound further by
limiting a bar state against density and entropy bounds.

All kernels are written once against utils.Number and run on a single edge
(utils.Scalar) or on four edges lock-step (utils.Lanes4).

	s := riemann.MustNewSolver[utils.Scalar](riemann.DefaultConfig())
	res := s.ComputeFromStates(Ui, Uj, n, 0)
*/
package riemann

package riemann

// lambda1Minus bounds the left going wave speed for a star pressure guess
func (s *Solver[T]) lambda1Minus(ps Primitive[T], pStar T) T {
	tmp := pStar.Sub(ps.P).Div(ps.P).PositivePart()
	return ps.U.Sub(ps.A.Mul(tmp.Scale(s.gc.shockFactor).Shift(1.).Sqrt()))
}

// lambda3Plus bounds the right going wave speed for a star pressure guess
func (s *Solver[T]) lambda3Plus(ps Primitive[T], pStar T) T {
	tmp := pStar.Sub(ps.P).Div(ps.P).PositivePart()
	return ps.U.Add(ps.A.Mul(tmp.Scale(s.gc.shockFactor).Shift(1.).Sqrt()))
}

/*
computeGap evaluates both extreme wave speeds at both ends of the bracket
pLo <= p_star <= pHi. The left going speed decreases with pressure, so its
outer estimate comes from pHi. The returned gap measures how far apart the
two estimates of each wave speed still are.
*/
func (s *Solver[T]) computeGap(ri, rj Primitive[T], pLo, pHi T) (gap, lambdaMax T) {
	var (
		nu11 = s.lambda1Minus(ri, pHi)
		nu12 = s.lambda1Minus(ri, pLo)
		nu31 = s.lambda3Plus(rj, pLo)
		nu32 = s.lambda3Plus(rj, pHi)
	)
	lambdaMax = nu32.PositivePart().Max(nu11.NegativePart())
	gap = nu32.Sub(nu31).Abs().Max(nu12.Sub(nu11).Abs())
	return
}

// computeLambda is the lambdaMax of computeGap without the gap
func (s *Solver[T]) computeLambda(ri, rj Primitive[T], pStar T) T {
	var (
		nu11 = s.lambda1Minus(ri, pStar)
		nu32 = s.lambda3Plus(rj, pStar)
	)
	return nu32.PositivePart().Max(nu11.NegativePart())
}

// WaveSpeeds returns the bounds on the left and right going wave speeds for a
// given star pressure
func (s *Solver[T]) WaveSpeeds(ri, rj Primitive[T], pStar T) (lambda1, lambda3 T) {
	return s.lambda1Minus(ri, pStar), s.lambda3Plus(rj, pStar)
}

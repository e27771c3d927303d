package utils

import (
	"fmt"
	"math"
)

/*
Number is the arithmetic every edge kernel is written against. A kernel written
once for Number[T] runs unchanged on a single edge (Scalar) or on a group of
edges evaluated lock-step (Lanes4).

Case distinctions are expressed with Select, which picks values lane by lane
instead of branching, so all lanes execute identical arithmetic.
*/
type Number[T any] interface {
	Add(b T) T
	Sub(b T) T
	Mul(b T) T
	Div(b T) T
	Neg() T
	Scale(s float64) T
	Shift(s float64) T
	Sqrt() T
	Pow(e float64) T
	Abs() T
	Max(b T) T
	Min(b T) T
	PositivePart() T
	NegativePart() T
	// Splat broadcasts s to every lane, the receiver value is ignored
	Splat(s float64) T
	// Select returns ifTrue in every lane where "receiver op rhs" holds and
	// ifFalse elsewhere
	Select(op EvalOp, rhs, ifTrue, ifFalse T) T
	Lane(i int) float64
	Width() int
	MaxLane() float64
	MinLane() float64
}

// Splat returns the constant s in the lane layout of T
func Splat[T Number[T]](s float64) T {
	var z T
	return z.Splat(s)
}

// positivePart maps NaN to zero, like max(0, x) written as x > 0 ? x : 0
func positivePart(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Scalar is the width one instantiation of Number
type Scalar float64

func (a Scalar) Add(b Scalar) Scalar       { return a + b }
func (a Scalar) Sub(b Scalar) Scalar       { return a - b }
func (a Scalar) Mul(b Scalar) Scalar       { return a * b }
func (a Scalar) Div(b Scalar) Scalar       { return a / b }
func (a Scalar) Neg() Scalar               { return -a }
func (a Scalar) Scale(s float64) Scalar    { return a * Scalar(s) }
func (a Scalar) Shift(s float64) Scalar    { return a + Scalar(s) }
func (a Scalar) Sqrt() Scalar              { return Scalar(math.Sqrt(float64(a))) }
func (a Scalar) Pow(e float64) Scalar      { return Scalar(math.Pow(float64(a), e)) }
func (a Scalar) Abs() Scalar               { return Scalar(math.Abs(float64(a))) }
func (a Scalar) Max(b Scalar) Scalar       { return Scalar(math.Max(float64(a), float64(b))) }
func (a Scalar) Min(b Scalar) Scalar       { return Scalar(math.Min(float64(a), float64(b))) }
func (a Scalar) PositivePart() Scalar      { return Scalar(positivePart(float64(a))) }
func (a Scalar) NegativePart() Scalar      { return Scalar(positivePart(-float64(a))) }
func (a Scalar) Splat(s float64) Scalar    { return Scalar(s) }
func (a Scalar) Lane(i int) float64        { return float64(a) }
func (a Scalar) Width() int                { return 1 }
func (a Scalar) MaxLane() float64          { return float64(a) }
func (a Scalar) MinLane() float64          { return float64(a) }
func (a Scalar) String() string            { return fmt.Sprintf("%g", float64(a)) }
func (a Scalar) Select(op EvalOp, rhs, ifTrue, ifFalse Scalar) Scalar {
	if op.Compare(float64(a), float64(rhs)) {
		return ifTrue
	}
	return ifFalse
}

const LaneWidth = 4

// Lanes4 holds one value for each of four independent edges
type Lanes4 [LaneWidth]float64

func (a Lanes4) Add(b Lanes4) (r Lanes4) {
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return
}

func (a Lanes4) Sub(b Lanes4) (r Lanes4) {
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return
}

func (a Lanes4) Mul(b Lanes4) (r Lanes4) {
	for i := range r {
		r[i] = a[i] * b[i]
	}
	return
}

func (a Lanes4) Div(b Lanes4) (r Lanes4) {
	for i := range r {
		r[i] = a[i] / b[i]
	}
	return
}

func (a Lanes4) Neg() (r Lanes4) {
	for i := range r {
		r[i] = -a[i]
	}
	return
}

func (a Lanes4) Scale(s float64) (r Lanes4) {
	for i := range r {
		r[i] = a[i] * s
	}
	return
}

func (a Lanes4) Shift(s float64) (r Lanes4) {
	for i := range r {
		r[i] = a[i] + s
	}
	return
}

func (a Lanes4) Sqrt() (r Lanes4) {
	for i := range r {
		r[i] = math.Sqrt(a[i])
	}
	return
}

func (a Lanes4) Pow(e float64) (r Lanes4) {
	for i := range r {
		r[i] = math.Pow(a[i], e)
	}
	return
}

func (a Lanes4) Abs() (r Lanes4) {
	for i := range r {
		r[i] = math.Abs(a[i])
	}
	return
}

func (a Lanes4) Max(b Lanes4) (r Lanes4) {
	for i := range r {
		r[i] = math.Max(a[i], b[i])
	}
	return
}

func (a Lanes4) Min(b Lanes4) (r Lanes4) {
	for i := range r {
		r[i] = math.Min(a[i], b[i])
	}
	return
}

func (a Lanes4) PositivePart() (r Lanes4) {
	for i := range r {
		r[i] = positivePart(a[i])
	}
	return
}

func (a Lanes4) NegativePart() (r Lanes4) {
	for i := range r {
		r[i] = positivePart(-a[i])
	}
	return
}

func (a Lanes4) Splat(s float64) (r Lanes4) {
	for i := range r {
		r[i] = s
	}
	return
}

func (a Lanes4) Select(op EvalOp, rhs, ifTrue, ifFalse Lanes4) (r Lanes4) {
	for i := range r {
		if op.Compare(a[i], rhs[i]) {
			r[i] = ifTrue[i]
		} else {
			r[i] = ifFalse[i]
		}
	}
	return
}

func (a Lanes4) Lane(i int) float64 { return a[i] }
func (a Lanes4) Width() int         { return LaneWidth }

func (a Lanes4) MaxLane() (m float64) {
	m = a[0]
	for _, v := range a[1:] {
		m = math.Max(m, v)
	}
	return
}

func (a Lanes4) MinLane() (m float64) {
	m = a[0]
	for _, v := range a[1:] {
		m = math.Min(m, v)
	}
	return
}

// LoadLanes4 gathers column col of rows[0:4] into one Lanes4. Rows beyond
// len(rows) repeat the last row so a partially filled group stays admissible.
func LoadLanes4(rows [][]float64, col int) (r Lanes4) {
	for i := range r {
		ii := i
		if ii > len(rows)-1 {
			ii = len(rows) - 1
		}
		r[i] = rows[ii][col]
	}
	return
}

// StoreLanes4 scatters the first len(dst) lanes of a into dst
func StoreLanes4(a Lanes4, dst []float64) {
	for i := range dst {
		if i == LaneWidth {
			break
		}
		dst[i] = a[i]
	}
}

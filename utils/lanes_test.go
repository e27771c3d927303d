package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The same generic expression must give identical results in every lane
func clampedRoot[T Number[T]](x, lo T) T {
	return x.Sub(lo).PositivePart().Sqrt().Add(Splat[T](1))
}

func TestLanes(t *testing.T) {
	{ // Lane-wise arithmetic agrees with the scalar instantiation
		a := Lanes4{1, -2, 3.5, 0}
		b := Lanes4{2, 2, -1, 4}
		for i := 0; i < LaneWidth; i++ {
			sa, sb := Scalar(a[i]), Scalar(b[i])
			assert.Equal(t, float64(sa.Add(sb)), a.Add(b)[i])
			assert.Equal(t, float64(sa.Sub(sb)), a.Sub(b)[i])
			assert.Equal(t, float64(sa.Mul(sb)), a.Mul(b)[i])
			assert.Equal(t, float64(sa.Div(sb)), a.Div(b)[i])
			assert.Equal(t, float64(sa.Max(sb)), a.Max(b)[i])
			assert.Equal(t, float64(sa.Min(sb)), a.Min(b)[i])
			assert.Equal(t, float64(sa.PositivePart()), a.PositivePart()[i])
			assert.Equal(t, float64(sa.NegativePart()), a.NegativePart()[i])
			assert.Equal(t, float64(clampedRoot(sa, sb)), clampedRoot(a, b)[i])
		}
	}
	{ // Select picks values per lane without branching the caller
		x := Lanes4{1, 2, 3, 4}
		r := x.Select(GreaterOrEqual, Splat[Lanes4](2.5), Splat[Lanes4](10), x.Neg())
		assert.Equal(t, Lanes4{-1, -2, 10, 10}, r)
		assert.Equal(t, Scalar(7), Scalar(1).Select(Less, 2, 7, 8))
		assert.Equal(t, Scalar(8), Scalar(2).Select(Less, 2, 7, 8))
		assert.Equal(t, Scalar(7), Scalar(2).Select(Equal, 2, 7, 8))
	}
	{ // Reductions
		x := Lanes4{1, -5, 3, 2}
		assert.Equal(t, 3., x.MaxLane())
		assert.Equal(t, -5., x.MinLane())
		assert.Equal(t, 4, x.Width())
		assert.Equal(t, 1, Scalar(0).Width())
		assert.True(t, math.IsNaN(Splat[Lanes4](-1).Sqrt().Lane(2)))
		assert.Equal(t, Lanes4{}, Splat[Lanes4](math.NaN()).PositivePart())
		assert.Equal(t, Scalar(0), Scalar(math.NaN()).NegativePart())
	}
	{ // Gather and scatter of partially filled groups
		rows := [][]float64{{1, 10}, {2, 20}, {3, 30}}
		l := LoadLanes4(rows, 1)
		assert.Equal(t, Lanes4{10, 20, 30, 30}, l)
		dst := make([]float64, 3)
		StoreLanes4(l, dst)
		assert.Equal(t, []float64{10, 20, 30}, dst)
	}
}

package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Mul, Transpose
		A := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		B := A.Transpose()
		assert.Equal(t, 1., B.At(0, 0))
		assert.Equal(t, 4., B.At(0, 1))
		assert.Equal(t, 3., B.At(2, 0))
		C := A.Mul(B) // 2x2
		assert.Equal(t, 14., C.At(0, 0))
		assert.Equal(t, 32., C.At(0, 1))
		assert.Equal(t, 77., C.At(1, 1))
	}
	{ // Chainable elementwise ops do not touch their argument
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 2, []float64{2, 2, 2, 2})
		A.ElMul(B).AddScalar(1).Scale(0.5)
		assert.Equal(t, 1.5, A.At(0, 0))
		assert.Equal(t, 4.5, A.At(1, 1))
		assert.Equal(t, 2., B.At(0, 0))
	}
	{ // SetRange with from-the-end indexing zeroes borders
		A := NewMatrix(4, 4).AddScalar(7)
		A.SetRange(0, 0, 0, -1, 0)
		A.SetRange(-1, -1, 0, -1, 0)
		A.SetRange(0, -1, 0, 0, 0)
		A.SetRange(0, -1, -1, -1, 0)
		for k := 0; k < 4; k++ {
			assert.Equal(t, 0., A.At(0, k))
			assert.Equal(t, 0., A.At(3, k))
			assert.Equal(t, 0., A.At(k, 0))
			assert.Equal(t, 0., A.At(k, 3))
		}
		assert.Equal(t, 7., A.At(1, 1))
		assert.Equal(t, 7., A.At(2, 2))
	}
	{ // Slice extracts the interior
		A := NewMatrix(3, 3, []float64{
			1, 2, 3,
			4, 5, 6,
			7, 8, 9,
		})
		I := A.Slice(1, 2, 1, 2)
		nr, nc := I.Dims()
		assert.Equal(t, 1, nr)
		assert.Equal(t, 1, nc)
		assert.Equal(t, 5., I.At(0, 0))
	}
	{ // Read-only protection
		A := NewMatrix(2, 2)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
		A.SetWritable()
		assert.NotPanics(t, func() { A.Set(0, 0, 1) })
	}
}

func TestVector(t *testing.T) {
	{ // Outer product forms the tensor grid
		v := NewVector(2, []float64{1, 2})
		w := NewVector(3, []float64{3, 4, 5})
		R := v.Outer(w)
		nr, nc := R.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 3, nc)
		assert.Equal(t, 3., R.At(0, 0))
		assert.Equal(t, 10., R.At(1, 2))
	}
	{ // Apply and POW
		v := NewVector(3, []float64{1, 2, 3}).POW(2)
		assert.Equal(t, 9., v.AtVec(2))
		v.Apply(math.Sqrt)
		assert.Equal(t, 3., v.AtVec(2))
	}
	{ // Copy is independent
		v := NewVector(2, []float64{1, 2})
		w := v.Copy()
		w.Set(0)
		assert.Equal(t, 1., v.AtVec(0))
	}
}

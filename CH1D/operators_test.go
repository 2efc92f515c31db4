package CH1D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gorcd/utils"
)

func TestDiffMat(t *testing.T) {
	{ // Negative order is rejected
		_, _, err := DiffMat(-1)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDimension))
	}
	{ // Degenerate single-node operator
		D, X, err := DiffMat(0)
		assert.NoError(t, err)
		assert.Equal(t, 1, X.Len())
		assert.Equal(t, 1., X.AtVec(0))
		assert.Equal(t, 0., D.At(0, 0))
	}
	{ // Nodes are cos(pi*k/N), decreasing, with the endpoints exact
		N := 8
		_, X, err := DiffMat(N)
		assert.NoError(t, err)
		assert.Equal(t, N+1, X.Len())
		assert.Equal(t, 1., X.AtVec(0))
		assert.Equal(t, -1., X.AtVec(N))
		for k := 0; k < N; k++ {
			assert.True(t, X.AtVec(k) > X.AtVec(k+1))
		}
		assert.True(t, near(X.AtVec(1), math.Cos(math.Pi/float64(N)), 1.e-14))
	}
}

func TestConstantAnnihilation(t *testing.T) {
	// The negative-row-sum diagonal forces each row of D to sum to zero,
	// so constants differentiate to zero regardless of order.
	for _, N := range []int{1, 4, 10, 32} {
		D, X, err := DiffMat(N)
		assert.NoError(t, err)
		du := applyToNodal(D, X, func(x float64) float64 { return 7.5 })
		// Row entries grow like N^2, so allow accumulation roundoff
		for k := 0; k <= N; k++ {
			assert.True(t, math.Abs(du[k]) < 1.e-9)
		}
	}
}

func TestPolynomialExactness(t *testing.T) {
	// D differentiates polynomials of degree <= N exactly at the nodes.
	var (
		p  = func(x float64) float64 { return x*x*x - 2*x*x + 3*x - 5 }
		dp = func(x float64) float64 { return 3*x*x - 4*x + 3 }
	)
	for _, N := range []int{3, 8, 16} {
		D, X, err := DiffMat(N)
		assert.NoError(t, err)
		du := applyToNodal(D, X, p)
		for k := 0; k <= N; k++ {
			assert.True(t, nearRel(du[k], dp(X.AtVec(k)), 1.e-10))
		}
	}
}

func TestSecondDerivativeComposition(t *testing.T) {
	// D2 = D*D applied to x^2 returns the constant 2 at the interior nodes.
	N := 10
	D, X, err := DiffMat(N)
	assert.NoError(t, err)
	D2 := D.Mul(D)
	du := applyToNodal(D2, X, func(x float64) float64 { return x * x })
	for k := 1; k < N; k++ {
		assert.True(t, nearRel(du[k], 2., 1.e-10))
	}
}

// applyToNodal samples f at the nodes and applies the operator.
func applyToNodal(D utils.Matrix, X utils.Vector, f func(float64) float64) (du []float64) {
	var (
		n = X.Len()
		u = make([]float64, n)
	)
	du = make([]float64, n)
	for k := 0; k < n; k++ {
		u[k] = f(X.AtVec(k))
	}
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += D.At(i, j) * u[j]
		}
		du[i] = sum
	}
	return
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func nearRel(a, b, tol float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		scale = 1
	}
	return math.Abs(a-b) < tol*scale
}

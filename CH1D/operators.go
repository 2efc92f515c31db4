package CH1D

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gorcd/utils"
)

var ErrInvalidDimension = errors.New("invalid operator dimension")

// ChebyshevGL returns the N+1 Chebyshev-Gauss-Lobatto nodes cos(pi*k/N) in
// [-1,1], decreasing with k. For N == 0 the single node is 1.
func ChebyshevGL(N int) (X utils.Vector) {
	if N == 0 {
		return utils.NewVector(1, []float64{1})
	}
	x := make([]float64, N+1)
	for k := 0; k <= N; k++ {
		x[k] = math.Cos(math.Pi * float64(k) / float64(N))
	}
	X = utils.NewVector(N+1, x)
	return
}

// DiffMat builds the dense first-derivative matrix on the Chebyshev-Gauss-
// Lobatto nodes, paired with the node vector it acts on. D applied to nodal
// samples of a polynomial of degree <= N yields the exact nodal derivatives
// up to rounding.
//
// The diagonal is the negative sum of the off-diagonal row entries, which
// forces D to annihilate constants exactly. The analytic diagonal formula is
// a known source of rounding trouble at high order and is never used.
func DiffMat(N int) (D utils.Matrix, X utils.Vector, err error) {
	if N < 0 {
		err = fmt.Errorf("%w: N = %d", ErrInvalidDimension, N)
		return
	}
	X = ChebyshevGL(N)
	if N == 0 {
		D = utils.NewMatrix(1, 1)
		D.SetReadOnly("D")
		return
	}
	var (
		Np = N + 1
		x  = X.RawVector().Data
		c  = make([]float64, Np)
	)
	for k := 0; k < Np; k++ {
		c[k] = 1.
		if k%2 == 1 {
			c[k] = -1.
		}
	}
	c[0] *= 2.
	c[N] *= 2.
	D = utils.NewMatrix(Np, Np)
	data := D.RawMatrix().Data
	for i := 0; i < Np; i++ {
		var rowSum float64
		for j := 0; j < Np; j++ {
			if i == j {
				continue
			}
			val := c[i] / (c[j] * (x[i] - x[j]))
			data[i*Np+j] = val
			rowSum += val
		}
		data[i*Np+i] = -rowSum
	}
	D.SetReadOnly("D")
	return
}

package CH2D

import (
	"github.com/james-bowman/sparse"
	"github.com/notargets/gorcd/CH1D"
	"github.com/notargets/gorcd/utils"
)

// SpectralContext carries the immutable 1-D operators for one axis: the
// Chebyshev-Gauss-Lobatto nodes, the first-derivative matrix D and the
// second-derivative matrix D2 = D*D. Built once per resolution and shared
// read-only by every grid and RHS operation.
type SpectralContext struct {
	N     int
	X     utils.Vector // nodes, decreasing in [-1,1]
	D, D2 utils.Matrix
	DT    utils.Matrix // D transposed, for right-side application
	D2T   utils.Matrix
}

func NewSpectralContext(N int) (sc *SpectralContext, err error) {
	var (
		D utils.Matrix
		X utils.Vector
	)
	if D, X, err = CH1D.DiffMat(N); err != nil {
		return
	}
	D2 := D.Mul(D)
	DT := D.Transpose()
	D2T := D2.Transpose()
	sc = &SpectralContext{
		N:   N,
		X:   X,
		D:   D,
		D2:  D2.SetReadOnly("D2"),
		DT:  DT.SetReadOnly("DT"),
		D2T: D2T.SetReadOnly("D2T"),
	}
	return
}

// AssembleGrid forms the tensor-product coordinate matrices from the two
// axis contexts. Convention, fixed for all consumers: row index i selects
// the y node, column index j selects the x node, so X[i,j] = x_j and
// Y[i,j] = y_i. A derivative in x is then W*DxT and a derivative in y is
// Dy*W.
func AssembleGrid(cx, cy *SpectralContext) (X, Y utils.Matrix) {
	var (
		onesY = utils.NewVector(cy.N + 1).Set(1)
		onesX = utils.NewVector(cx.N + 1).Set(1)
	)
	X = onesY.Outer(cx.X)
	Y = cy.X.Outer(onesX)
	X.SetReadOnly("X")
	Y.SetReadOnly("Y")
	return
}

// FlattenedDiffusion assembles the flattened 2-D diffusion operator
// mu*(I kron D2x + D2y kron I) in CSR form, acting on the row-major
// flattening of W. The dense RHS path never multiplies by it; it exists so
// the integrator can bound the operator spectrum cheaply before stepping.
func FlattenedDiffusion(cx, cy *SpectralContext, mu float64) *sparse.CSR {
	var (
		nx  = cx.N + 1
		ny  = cy.N + 1
		M   = nx * ny
		d2x = cx.D2.RawMatrix().Data
		d2y = cy.D2.RawMatrix().Data
		dok = sparse.NewDOK(M, M)
	)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			p := i*nx + j
			// (W*D2xT)[i,j] pulls row i across columns k
			for k := 0; k < nx; k++ {
				q := i*nx + k
				dok.Set(p, q, dok.At(p, q)+mu*d2x[j*nx+k])
			}
			// (D2y*W)[i,j] pulls column j across rows k
			for k := 0; k < ny; k++ {
				q := k*nx + j
				dok.Set(p, q, dok.At(p, q)+mu*d2y[i*ny+k])
			}
		}
	}
	return dok.ToCSR()
}

// GershgorinRadius bounds the spectral radius of a sparse operator by the
// largest absolute row sum. Used to seed the integrator's first step size.
func GershgorinRadius(A *sparse.CSR) (radius float64) {
	nr, _ := A.Dims()
	rowSums := make([]float64, nr)
	A.DoNonZero(func(i, j int, v float64) {
		if v < 0 {
			v = -v
		}
		rowSums[i] += v
	})
	for _, val := range rowSums {
		if val > radius {
			radius = val
		}
	}
	return
}

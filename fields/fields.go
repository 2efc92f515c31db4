// Package fields supplies the coefficient and initial-condition evaluators
// experiments bind to the solver: reaction rate ("fuel"), the two wind
// components, and initial scalar bumps. Every evaluator maps the grid
// coordinate matrices to a value matrix of the same shape, deterministically
// and without side effects, and is sampled exactly once per run.
package fields

import (
	"math"

	"github.com/notargets/gorcd/utils"
)

// Field evaluates a scalar field on the tensor-product grid. X and Y have
// identical shape; the result matches it.
type Field func(X, Y utils.Matrix) utils.Matrix

// Gaussian is one radial bump of a mixture: Amplitude*exp(-((x-X0)^2+(y-Y0)^2)/Spread^2).
type Gaussian struct {
	X0, Y0    float64
	Amplitude float64
	Spread    float64
}

func Constant(val float64) Field {
	return func(X, Y utils.Matrix) utils.Matrix {
		nr, nc := X.Dims()
		return utils.NewMatrix(nr, nc, utils.ConstArray(val, nr*nc))
	}
}

// GaussianMixture sums radial bumps, the shape used for fuel beds and
// initial fire spots.
func GaussianMixture(bumps ...Gaussian) Field {
	return func(X, Y utils.Matrix) utils.Matrix {
		var (
			nr, nc = X.Dims()
			dataX  = X.RawMatrix().Data
			dataY  = Y.RawMatrix().Data
			R      = utils.NewMatrix(nr, nc)
			dataR  = R.RawMatrix().Data
		)
		for _, g := range bumps {
			s2 := g.Spread * g.Spread
			for i := range dataR {
				dx := dataX[i] - g.X0
				dy := dataY[i] - g.Y0
				dataR[i] += g.Amplitude * math.Exp(-(dx*dx+dy*dy)/s2)
			}
		}
		return R
	}
}

// SinusoidX is a wind component varying sinusoidally across the y axis,
// amp*sin(pi*periods*y): a shear profile for the x velocity.
func SinusoidX(amp, periods float64) Field {
	return func(X, Y utils.Matrix) utils.Matrix {
		return Y.Copy().Apply(func(y float64) float64 {
			return amp * math.Sin(math.Pi*periods*y)
		})
	}
}

// SinusoidY is the transpose profile, amp*sin(pi*periods*x) for the y
// velocity component.
func SinusoidY(amp, periods float64) Field {
	return func(X, Y utils.Matrix) utils.Matrix {
		return X.Copy().Apply(func(x float64) float64 {
			return amp * math.Sin(math.Pi*periods*x)
		})
	}
}

// Sum composes evaluators pointwise.
func Sum(ff ...Field) Field {
	return func(X, Y utils.Matrix) utils.Matrix {
		nr, nc := X.Dims()
		R := utils.NewMatrix(nr, nc)
		for _, f := range ff {
			R.Add(f(X, Y))
		}
		return R
	}
}

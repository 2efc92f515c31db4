package fields

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gorcd/CH2D"
)

func TestConstant(t *testing.T) {
	sc, _ := CH2D.NewSpectralContext(5)
	X, Y := CH2D.AssembleGrid(sc, sc)
	F := Constant(3.25)(X, Y)
	nr, nc := F.Dims()
	assert.Equal(t, 6, nr)
	assert.Equal(t, 6, nc)
	assert.Equal(t, 3.25, F.Min())
	assert.Equal(t, 3.25, F.Max())
}

func TestGaussianMixture(t *testing.T) {
	sc, _ := CH2D.NewSpectralContext(8)
	X, Y := CH2D.AssembleGrid(sc, sc)
	F := GaussianMixture(
		Gaussian{X0: 0, Y0: 0, Amplitude: 100, Spread: 0.25},
	)(X, Y)
	// Grid center carries the peak; N even puts a node exactly at (0,0)
	assert.True(t, math.Abs(F.Max()-100) < 1.e-12)
	// Far corner is essentially extinguished
	assert.True(t, F.At(0, 0) < 1.e-10)

	// Two bumps superpose
	F2 := GaussianMixture(
		Gaussian{X0: 0, Y0: 0, Amplitude: 1, Spread: 0.5},
		Gaussian{X0: 0, Y0: 0, Amplitude: 2, Spread: 0.5},
	)(X, Y)
	assert.True(t, math.Abs(F2.Max()-3) < 1.e-12)
}

func TestSinusoids(t *testing.T) {
	sc, _ := CH2D.NewSpectralContext(4)
	X, Y := CH2D.AssembleGrid(sc, sc)
	V1 := SinusoidX(2, 1)(X, Y)
	nr, nc := V1.Dims()
	// Constant across x (columns), varying with y
	for i := 0; i < nr; i++ {
		for j := 1; j < nc; j++ {
			assert.Equal(t, V1.At(i, 0), V1.At(i, j))
		}
		want := 2 * math.Sin(math.Pi*Y.At(i, 0))
		assert.True(t, math.Abs(V1.At(i, 0)-want) < 1.e-14)
	}
	V2 := SinusoidY(2, 1)(X, Y)
	for j := 0; j < nc; j++ {
		for i := 1; i < nr; i++ {
			assert.Equal(t, V2.At(0, j), V2.At(i, j))
		}
	}
}

func TestSum(t *testing.T) {
	sc, _ := CH2D.NewSpectralContext(3)
	X, Y := CH2D.AssembleGrid(sc, sc)
	F := Sum(Constant(1), Constant(2.5))(X, Y)
	assert.Equal(t, 3.5, F.Min())
	assert.Equal(t, 3.5, F.Max())
}

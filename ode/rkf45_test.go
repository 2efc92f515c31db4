package ode

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExponentialDecay(t *testing.T) {
	s := NewRKF45(DefaultConfig())
	y := []float64{1}
	stats, err := s.Integrate(func(t float64, y, dydt []float64) {
		dydt[0] = -y[0]
	}, 0, 1, y)
	assert.NoError(t, err)
	assert.True(t, stats.Steps > 0)
	assert.True(t, math.Abs(y[0]-math.Exp(-1)) < 1.e-6)
}

func TestHarmonicOscillator(t *testing.T) {
	// y'' = -y as a 2-system; exact answer (cos t, -sin t) after a full span.
	s := NewRKF45(DefaultConfig())
	y := []float64{1, 0}
	_, err := s.Integrate(func(t float64, y, dydt []float64) {
		dydt[0] = y[1]
		dydt[1] = -y[0]
	}, 0, 2, y)
	assert.NoError(t, err)
	assert.True(t, math.Abs(y[0]-math.Cos(2)) < 1.e-6)
	assert.True(t, math.Abs(y[1]+math.Sin(2)) < 1.e-6)
}

func TestStationarySystem(t *testing.T) {
	// A zero RHS must reproduce the initial state bit for bit.
	s := NewRKF45(DefaultConfig())
	y := []float64{3.5, -1.25, 0}
	_, err := s.Integrate(func(t float64, y, dydt []float64) {
		for i := range dydt {
			dydt[i] = 0
		}
	}, 0, 10, y)
	assert.NoError(t, err)
	assert.Equal(t, []float64{3.5, -1.25, 0}, y)
}

func TestBlowUpFails(t *testing.T) {
	// y' = y^2 from y(0)=1 is singular at t=1; the stepper must surface a
	// StepFailure with the time it actually reached, not a truncated state.
	cfg := DefaultConfig()
	cfg.MaxSteps = 20000
	s := NewRKF45(cfg)
	y := []float64{1}
	_, err := s.Integrate(func(t float64, y, dydt []float64) {
		dydt[0] = y[0] * y[0]
	}, 0, 2, y)
	assert.Error(t, err)
	var sf *StepFailure
	assert.True(t, errors.As(err, &sf))
	assert.True(t, sf.TimeReached > 0.5)
	assert.True(t, sf.TimeReached < 1.5)
}

func TestNextStepSizeSeedsFollowingInterval(t *testing.T) {
	// NextStepSize carries the controller's step, not the clamped landing
	// remainder, so chaining it into the next Integrate call skips the
	// ramp-up from a deliberately tiny seed.
	cfg := DefaultConfig()
	cfg.InitialStepSize = 1.e-6
	s := NewRKF45(cfg)
	decay := func(t float64, y, dydt []float64) {
		dydt[0] = -y[0]
	}
	y := []float64{1}
	first, err := s.Integrate(decay, 0, 1, y)
	assert.NoError(t, err)
	assert.True(t, first.NextStepSize > cfg.InitialStepSize)

	s.Cfg.InitialStepSize = first.NextStepSize
	y = []float64{1}
	second, err := s.Integrate(decay, 0, 1, y)
	assert.NoError(t, err)
	assert.True(t, second.Evaluations < first.Evaluations)
}

func TestOverflowRejectedNotAccepted(t *testing.T) {
	// An RHS that overflows at any step size must surface a failure with
	// the state still finite; an Inf/Inf error quotient must never pass
	// the acceptance test.
	s := NewRKF45(DefaultConfig())
	y := []float64{1000}
	_, err := s.Integrate(func(t float64, y, dydt []float64) {
		dydt[0] = math.Exp(y[0])
	}, 0, 1, y)
	assert.Error(t, err)
	var sf *StepFailure
	assert.True(t, errors.As(err, &sf))
	if sf != nil {
		assert.Equal(t, 0.0, sf.TimeReached)
		assert.Equal(t, "non-finite state", sf.Reason)
	}
	assert.Equal(t, []float64{1000}, y)
}

func TestBadInterval(t *testing.T) {
	s := NewRKF45(DefaultConfig())
	y := []float64{1}
	_, err := s.Integrate(func(t float64, y, dydt []float64) {
		dydt[0] = 0
	}, 1, 1, y)
	assert.Error(t, err)
}

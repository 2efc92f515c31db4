// Package ode provides the adaptive time advancement used by the model
// problems: an embedded Runge-Kutta-Fehlberg 4(5) pair with proportional
// step-size control. The caller hands in a report interval; the stepper
// subdivides it internally to hold the local error under tolerance and
// always lands exactly on the interval end.
package ode

import (
	"fmt"
	"math"
)

// Func evaluates the right hand side dydt = f(t, y). Implementations must
// not retain y or dydt across calls.
type Func func(t float64, y, dydt []float64)

type Config struct {
	// InitialStepSize, if > 0, is used for the first attempted step.
	// Otherwise a conservative fraction of the interval is used.
	InitialStepSize float64

	// MinStepSize is the hard floor: a required step below it raises a
	// StepFailure instead of silently degrading accuracy.
	MinStepSize float64

	// MaxStepSize, if > 0, caps step growth.
	MaxStepSize float64

	AbsTol float64
	RelTol float64

	// MaxSteps bounds attempted steps per Integrate call, accepted or not.
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		MinStepSize: 1.e-12,
		AbsTol:      1.e-8,
		RelTol:      1.e-6,
		MaxSteps:    1000000,
	}
}

type Statistics struct {
	Steps        int // accepted steps
	Rejected     int
	Evaluations  int
	LastStepSize float64

	// NextStepSize is the controller's step going into the next interval,
	// unclamped by the landing on t1; callers chaining Integrate over a
	// report grid can seed the next call with it.
	NextStepSize float64
}

// StepFailure reports that the stepper could not meet its error tolerance
// within the configured step-size floor or step budget. TimeReached is the
// last time at which the state y is valid.
type StepFailure struct {
	TimeReached float64
	StepSize    float64
	Reason      string
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("integration failed at t = %g (h = %g): %s", e.TimeReached, e.StepSize, e.Reason)
}

// RKF45 holds the work arrays for the Fehlberg 4(5) pair, sized on first
// use and reused across steps.
type RKF45 struct {
	Cfg  Config
	work [8][]float64
}

func NewRKF45(cfg Config) *RKF45 {
	if cfg.MinStepSize <= 0 {
		cfg.MinStepSize = 1.e-12
	}
	if cfg.AbsTol <= 0 {
		cfg.AbsTol = 1.e-8
	}
	if cfg.RelTol <= 0 {
		cfg.RelTol = 1.e-6
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 1000000
	}
	return &RKF45{Cfg: cfg}
}

// Integrate advances y in place from t0 to t1, adapting the internal step
// to the configured tolerances. On success y holds the state at t1. On
// failure y holds the state at StepFailure.TimeReached.
func (s *RKF45) Integrate(f Func, t0, t1 float64, y []float64) (stats Statistics, err error) {
	var (
		cfg  = s.Cfg
		n    = len(y)
		t    = t0
		span = t1 - t0
	)
	if span <= 0 {
		err = fmt.Errorf("bad integration interval [%g,%g]", t0, t1)
		return
	}
	s.size(n)
	h := cfg.InitialStepSize
	if h <= 0 {
		h = span / 16
	}
	if cfg.MaxStepSize > 0 && h > cfg.MaxStepSize {
		h = cfg.MaxStepSize
	}
	var (
		y1     = s.work[0]
		errEst = s.work[1]
	)
	for t < t1 {
		if stats.Steps+stats.Rejected >= cfg.MaxSteps {
			err = &StepFailure{TimeReached: t, StepSize: h, Reason: "step budget exhausted"}
			return
		}
		hTry, last := h, false
		if t+hTry >= t1 {
			hTry, last = t1-t, true
		}
		s.step(f, t, hTry, y, y1, errEst)
		stats.Evaluations += 6

		// Mixed absolute/relative error norm; <= 1 accepts the step. A
		// non-finite stage result forces an infinite norm so the step is
		// rejected; comparing a NaN quotient (Inf/Inf) would otherwise let
		// an overflowed step through with norm 0.
		var norm float64
		for j := 0; j < n; j++ {
			if !isFinite(y1[j]) || !isFinite(errEst[j]) {
				norm = math.Inf(1)
				break
			}
			sc := cfg.AbsTol + cfg.RelTol*math.Max(math.Abs(y[j]), math.Abs(y1[j]))
			if e := math.Abs(errEst[j]) / sc; e > norm {
				norm = e
			}
		}
		if norm <= 1 {
			t += hTry
			copy(y, y1)
			stats.Steps++
			stats.LastStepSize = hTry
			if last {
				break
			}
		} else {
			stats.Rejected++
		}
		// Proportional controller with the usual growth/shrink clamps.
		// Rescaling from hTry rather than h means an accepted landing step
		// never shrinks the controller's step, only a rejected one.
		fac := 0.9 * math.Pow(math.Max(norm, 1.e-10), -0.2)
		if fac > 5 {
			fac = 5
		} else if fac < 0.2 {
			fac = 0.2
		}
		h = hTry * fac
		if cfg.MaxStepSize > 0 && h > cfg.MaxStepSize {
			h = cfg.MaxStepSize
		}
		if h < cfg.MinStepSize {
			reason := "step size underflow"
			if math.IsInf(norm, 1) {
				reason = "non-finite state"
			}
			err = &StepFailure{TimeReached: t, StepSize: h, Reason: reason}
			return
		}
	}
	stats.NextStepSize = h
	return
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *RKF45) size(n int) {
	if len(s.work[0]) == n {
		return
	}
	for i := range s.work {
		s.work[i] = make([]float64, n)
	}
}

// step performs one Fehlberg 4(5) stage evaluation: y1 receives the 5th
// order solution at t0+h, errEst the embedded 4th/5th order difference.
func (s *RKF45) step(f Func, t0, h float64, y0, y1, errEst []float64) {
	var (
		n    = len(y0)
		ytmp = s.work[2]
		k1   = s.work[3]
		k2   = s.work[4]
		k3   = s.work[5]
		k4   = s.work[6]
		k5   = s.work[7]
		k6   = errEst // reused as the 6th stage before the error sweep
	)
	f(t0, y0, k1)
	for j := 0; j < n; j++ {
		ytmp[j] = y0[j] + 0.25*h*k1[j]
	}
	f(t0+h/4.0, ytmp, k2)
	for j := 0; j < n; j++ {
		ytmp[j] = y0[j] + 3.0*h*k1[j]/32.0 + 9.0*h*k2[j]/32.0
	}
	f(t0+3.0*h/8.0, ytmp, k3)
	for j := 0; j < n; j++ {
		ytmp[j] = y0[j] + 1932.0*h*k1[j]/2197.0 - 7200.0*h*k2[j]/2197.0 + 7296.0*h*k3[j]/2197.0
	}
	f(t0+12.0*h/13.0, ytmp, k4)
	for j := 0; j < n; j++ {
		ytmp[j] = y0[j] + 439.0*h*k1[j]/216.0 - 8.0*h*k2[j] + 3680.0*h*k3[j]/513.0 - 845.0*h*k4[j]/4104.0
	}
	f(t0+h, ytmp, k5)
	for j := 0; j < n; j++ {
		ytmp[j] = y0[j] - 8.0*h*k1[j]/27.0 + 2.0*h*k2[j] -
			3544.0*h*k3[j]/2565.0 + 1859.0*h*k4[j]/4104.0 - 11.0*h*k5[j]/40.0
	}
	f(t0+h/2.0, ytmp, k6)
	for j := 0; j < n; j++ {
		y1[j] = y0[j] + 16.0*h*k1[j]/135.0 + 6656.0*h*k3[j]/12825.0 +
			28561.0*h*k4[j]/56430.0 - 9.0*h*k5[j]/50.0 + 2.0*h*k6[j]/55.0
		errEst[j] = h*k1[j]/360.0 - 128.0*h*k3[j]/4275.0 - 2197.0*h*k4[j]/75240.0 + h*k5[j]/50.0 + 2.0*h*k6[j]/55.0
	}
}

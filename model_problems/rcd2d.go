package model_problems

import (
	"errors"
	"fmt"

	"github.com/notargets/gorcd/CH2D"
	"github.com/notargets/gorcd/fields"
	"github.com/notargets/gorcd/ode"
	"github.com/notargets/gorcd/utils"
)

var ErrShapeMismatch = errors.New("field shape does not match grid")

// Config enumerates one reaction-convection-diffusion experiment. All four
// evaluators are sampled once at construction; the sampled matrices are
// treated as constant for the whole run.
type Config struct {
	N        int     // grid order, (N+1)x(N+1) nodes
	Mu       float64 // diffusion constant
	Dt       float64 // report interval
	NumSteps int     // report instants, first at t = 0
	Verbose  bool

	Reaction         fields.Field
	VelocityX        fields.Field
	VelocityY        fields.Field
	InitialCondition fields.Field
}

// Trajectory is the run product: NumSteps time stamps paired with state
// snapshots, owned by the caller.
type Trajectory struct {
	Times  []float64
	States []utils.Matrix
}

// IntegrationFailure surfaces an aborted run together with the report
// instants that were fully reached; no silent truncation.
type IntegrationFailure struct {
	TimeReached float64
	Partial     *Trajectory
	Cause       error
}

func (e *IntegrationFailure) Error() string {
	return fmt.Sprintf("run aborted at t = %g after %d snapshots: %v",
		e.TimeReached, len(e.Partial.States), e.Cause)
}

func (e *IntegrationFailure) Unwrap() error { return e.Cause }

// RCD2D solves w_t = mu*Lap(w) - v.grad(w) + a*w on [-1,1]^2 with the
// boundary rate of change frozen to zero, so border values hold whatever
// the initial condition supplied there.
type RCD2D struct {
	Ctx      *CH2D.SpectralContext
	X, Y     utils.Matrix
	Mu       float64
	Dt       float64
	NumSteps int
	Verbose  bool

	// Coefficient fields, sampled once
	A, V1, V2, W0 utils.Matrix

	stepper *ode.RKF45
}

func NewRCD2D(cfg Config) (c *RCD2D, err error) {
	var ctx *CH2D.SpectralContext
	if ctx, err = CH2D.NewSpectralContext(cfg.N); err != nil {
		return
	}
	if cfg.Dt <= 0 {
		err = fmt.Errorf("report interval must be positive, have %g", cfg.Dt)
		return
	}
	if cfg.NumSteps < 1 {
		err = fmt.Errorf("need at least one report instant, have %d", cfg.NumSteps)
		return
	}
	X, Y := CH2D.AssembleGrid(ctx, ctx)
	c = &RCD2D{
		Ctx:      ctx,
		X:        X,
		Y:        Y,
		Mu:       cfg.Mu,
		Dt:       cfg.Dt,
		NumSteps: cfg.NumSteps,
		Verbose:  cfg.Verbose,
	}
	if c.A, err = c.sample("reaction", cfg.Reaction); err != nil {
		return
	}
	if c.V1, err = c.sample("velocityX", cfg.VelocityX); err != nil {
		return
	}
	if c.V2, err = c.sample("velocityY", cfg.VelocityY); err != nil {
		return
	}
	if c.W0, err = c.sample("initialCondition", cfg.InitialCondition); err != nil {
		return
	}

	// Seed the first internal step from a Gershgorin bound on the
	// flattened diffusion operator plus the strongest reaction rate, so
	// the stepper does not burn rejections discovering the stiffness.
	oc := ode.DefaultConfig()
	oc.MaxStepSize = cfg.Dt
	rho := CH2D.GershgorinRadius(CH2D.FlattenedDiffusion(ctx, ctx, cfg.Mu))
	if aMax := c.A.Copy().Apply(abs).Max(); aMax > rho {
		rho = aMax
	}
	if rho > 0 && 1/rho < cfg.Dt {
		oc.InitialStepSize = 1 / rho
	}
	c.stepper = ode.NewRKF45(oc)
	return
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (c *RCD2D) sample(label string, f fields.Field) (M utils.Matrix, err error) {
	if f == nil {
		f = fields.Constant(0)
	}
	M = f(c.X, c.Y)
	nr, nc := M.Dims()
	if gr, gc := c.X.Dims(); nr != gr || nc != gc {
		err = fmt.Errorf("%w: %s is %dx%d, grid is %dx%d", ErrShapeMismatch, label, nr, nc, gr, gc)
		return
	}
	M.SetReadOnly(label)
	return
}

// RHS assembles the spatial operator application at state W. The PDE here
// is autonomous: t is accepted for the integrator's benefit and ignored.
//
//	diffusion:  mu*(W*D2xT + D2y*W)
//	convection: (W*DxT).V1 + (Dy*W).V2, the non-conservative v.grad(w) form
//	reaction:   A.W
//
// The four border rows/columns of the result are zeroed afterwards: the
// rate of change is frozen there, not the value.
func (c *RCD2D) RHS(W utils.Matrix, t float64) (RHSW utils.Matrix) {
	var (
		ctx = c.Ctx
	)
	RHSW = W.Mul(ctx.D2T).Add(ctx.D2.Mul(W)).Scale(c.Mu)
	conv := W.Mul(ctx.DT).ElMul(c.V1).Add(ctx.D.Mul(W).ElMul(c.V2))
	RHSW.Subtract(conv).Add(W.Copy().ElMul(c.A))
	RHSW.SetRange(0, 0, 0, -1, 0)
	RHSW.SetRange(-1, -1, 0, -1, 0)
	RHSW.SetRange(0, -1, 0, 0, 0)
	RHSW.SetRange(0, -1, -1, -1, 0)
	return
}

// Run advances W0 through the report grid t_k = k*Dt, k = 0..NumSteps-1,
// and returns one snapshot per instant. On stepper failure the partial
// trajectory of fully reached instants is returned inside the error.
func (c *RCD2D) Run() (traj *Trajectory, err error) {
	var (
		np   = c.Ctx.N + 1
		y    = make([]float64, np*np)
		W    = utils.NewMatrix(np, np, y) // W shares y's backing store
		dydt utils.Matrix
	)
	copy(y, c.W0.RawMatrix().Data)
	f := func(t float64, yy, out []float64) {
		dydt = c.RHS(utils.NewMatrix(np, np, yy), t)
		copy(out, dydt.RawMatrix().Data)
	}
	traj = &Trajectory{
		Times:  []float64{0},
		States: []utils.Matrix{W.Copy()},
	}
	for k := 1; k < c.NumSteps; k++ {
		t0, t1 := float64(k-1)*c.Dt, float64(k)*c.Dt
		stats, serr := c.stepper.Integrate(f, t0, t1, y)
		if serr != nil {
			reached := t0
			var sf *ode.StepFailure
			if errors.As(serr, &sf) {
				reached = sf.TimeReached
			}
			err = &IntegrationFailure{TimeReached: reached, Partial: traj, Cause: serr}
			traj = nil
			return
		}
		// Seed the next interval with the controller's step so each report
		// interval does not re-ramp from the spectral-radius bound.
		if stats.NextStepSize > 0 {
			c.stepper.Cfg.InitialStepSize = stats.NextStepSize
		}
		traj.Times = append(traj.Times, t1)
		traj.States = append(traj.States, W.Copy())
		if c.Verbose {
			fmt.Printf("t = %8.4f, peak = %10.6f, steps = %d (rejected %d), h = %8.6f\n",
				t1, W.Max(), stats.Steps, stats.Rejected, stats.LastStepSize)
		}
	}
	return
}

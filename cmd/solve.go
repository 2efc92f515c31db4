/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/notargets/gorcd/InputParameters"
	"github.com/notargets/gorcd/fields"
	"github.com/notargets/gorcd/model_problems"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run one reaction-convection-diffusion experiment",
	Long: `
Builds the Chebyshev operators and grid, samples the coefficient fields,
advances the system through the requested report instants and prints a
per-snapshot summary,

gorcd solve -f experiment.yaml -o out/`,
	Run: func(cmd *cobra.Command, args []string) {
		ms := &ModelSolve{}
		ms.N, _ = cmd.Flags().GetInt("n")
		ms.Mu, _ = cmd.Flags().GetFloat64("mu")
		ms.Dt, _ = cmd.Flags().GetFloat64("dt")
		ms.NumSteps, _ = cmd.Flags().GetInt("steps")
		ms.ParamFile, _ = cmd.Flags().GetString("paramFile")
		ms.OutDir, _ = cmd.Flags().GetString("outDir")
		ms.Verbose, _ = cmd.Flags().GetBool("verbose")
		ms.Profile, _ = cmd.Flags().GetString("profile")
		ms.Perf, _ = cmd.Flags().GetBool("perf")
		RunSolve(ms)
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().IntP("n", "n", 24, "grid order, (n+1)x(n+1) nodes")
	SolveCmd.Flags().Float64("mu", 0.8, "diffusion constant")
	SolveCmd.Flags().Float64("dt", 0.01, "report interval")
	SolveCmd.Flags().IntP("steps", "s", 100, "number of report instants")
	SolveCmd.Flags().StringP("paramFile", "f", "", "YAML experiment parameter file")
	SolveCmd.Flags().StringP("outDir", "o", "", "write one .dat file per snapshot here")
	SolveCmd.Flags().BoolP("verbose", "v", false, "report per-snapshot integrator statistics")
	SolveCmd.Flags().String("profile", "", "write a pprof profile: cpu or mem")
	SolveCmd.Flags().Bool("perf", false, "report hardware instruction counts (linux only)")
}

type ModelSolve struct {
	N         int
	Mu        float64
	Dt        float64
	NumSteps  int
	ParamFile string
	OutDir    string
	Verbose   bool
	Profile   string
	Perf      bool
}

func RunSolve(ms *ModelSolve) {
	switch ms.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}
	cfg, err := ms.modelConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	c, err := model_problems.NewRCD2D(cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	var traj *model_problems.Trajectory
	run := func() error {
		traj, err = c.Run()
		return err
	}
	if ms.Perf {
		err = measurePerf(run)
	} else {
		err = run()
	}
	if err != nil {
		var fail *model_problems.IntegrationFailure
		if errors.As(err, &fail) {
			fmt.Printf("%v\nkeeping the %d snapshots that completed\n", fail, len(fail.Partial.States))
			traj = fail.Partial
		} else {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	for k, W := range traj.States {
		fmt.Printf("t = %8.4f, peak = %10.6f, min = %10.6f\n", traj.Times[k], W.Max(), W.Min())
	}
	if ms.OutDir != "" {
		if err = WriteTrajectory(ms.OutDir, c, traj); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func (ms *ModelSolve) modelConfig() (cfg model_problems.Config, err error) {
	cfg = model_problems.Config{
		N:        ms.N,
		Mu:       ms.Mu,
		Dt:       ms.Dt,
		NumSteps: ms.NumSteps,
		Verbose:  ms.Verbose,
		InitialCondition: fields.GaussianMixture(fields.Gaussian{
			Amplitude: 100, Spread: 0.25,
		}),
	}
	if ms.ParamFile == "" {
		return
	}
	var data []byte
	if data, err = ioutil.ReadFile(ms.ParamFile); err != nil {
		return
	}
	ip := &InputParameters.InputParametersRCD{}
	if err = ip.Parse(data); err != nil {
		return
	}
	ip.Print()
	if ip.GridOrder > 0 {
		cfg.N = ip.GridOrder
	}
	if ip.Mu != 0 {
		cfg.Mu = ip.Mu
	}
	if ip.Dt > 0 {
		cfg.Dt = ip.Dt
	}
	if ip.NumSteps > 0 {
		cfg.NumSteps = ip.NumSteps
	}
	if len(ip.Fuel) != 0 {
		cfg.Reaction = fields.GaussianMixture(toGaussians(ip.Fuel)...)
	}
	if len(ip.InitialFire) != 0 {
		cfg.InitialCondition = fields.GaussianMixture(toGaussians(ip.InitialFire)...)
	}
	if cfg.VelocityX, err = windField(ip.WindX, true); err != nil {
		return
	}
	cfg.VelocityY, err = windField(ip.WindY, false)
	return
}

func toGaussians(specs []InputParameters.GaussianSpec) (gg []fields.Gaussian) {
	for _, s := range specs {
		gg = append(gg, fields.Gaussian{
			X0: s.X0, Y0: s.Y0, Amplitude: s.Amplitude, Spread: s.Spread,
		})
	}
	return
}

func windField(w InputParameters.WindSpec, xComponent bool) (f fields.Field, err error) {
	switch w.Type {
	case "", "constant":
		f = fields.Constant(w.Amplitude)
	case "sinusoid":
		if xComponent {
			f = fields.SinusoidX(w.Amplitude, w.Periods)
		} else {
			f = fields.SinusoidY(w.Amplitude, w.Periods)
		}
	default:
		err = fmt.Errorf("unknown wind type: %s", w.Type)
	}
	return
}

// WriteTrajectory dumps each snapshot to outDir/snap_NNN.dat as
// "x y w" triplets, the hand-off format for external plotting.
func WriteTrajectory(outDir string, c *model_problems.RCD2D, traj *model_problems.Trajectory) (err error) {
	if err = os.MkdirAll(outDir, 0755); err != nil {
		return
	}
	var (
		nr, nc = c.X.Dims()
		dataX  = c.X.RawMatrix().Data
		dataY  = c.Y.RawMatrix().Data
	)
	for k, W := range traj.States {
		var f *os.File
		if f, err = os.Create(filepath.Join(outDir, fmt.Sprintf("snap_%03d.dat", k))); err != nil {
			return
		}
		fmt.Fprintf(f, "# t = %g\n", traj.Times[k])
		dataW := W.RawMatrix().Data
		for i := 0; i < nr*nc; i++ {
			fmt.Fprintf(f, "%g %g %g\n", dataX[i], dataY[i], dataW[i])
		}
		if err = f.Close(); err != nil {
			return
		}
	}
	return
}

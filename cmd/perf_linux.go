//go:build linux
// +build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// measurePerf wraps a solve in a hardware instruction counter. The solve's
// own error is kept separate from counter availability: perf_event_open
// needs permission, and a refusal must not abort the run.
func measurePerf(f func() error) (err error) {
	var ran bool
	instr, perr := perf.CPUInstructions(func() error {
		ran = true
		err = f()
		return nil
	})
	if !ran {
		fmt.Printf("perf counters unavailable: %v\n", perr)
		return f()
	}
	if perr == nil {
		fmt.Printf("instructions = %d (enabled %dns, running %dns)\n",
			instr.Value, instr.TimeEnabled, instr.TimeRunning)
	}
	return
}

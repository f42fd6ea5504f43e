package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChristopherRabotin/mgadsm"
)

var (
	sweepSpanDays float64
	sweepTOFDays  float64
	sweepSteps    int
	sweepOut      string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep departure epochs and first-leg flight times around the scenario, porkchop style",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().Float64Var(&sweepSpanDays, "dep-span", 60, "departure epoch span around the scenario value, days")
	sweepCmd.Flags().Float64Var(&sweepTOFDays, "tof-span", 60, "first leg time of flight span, days")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 21, "grid steps per axis")
	sweepCmd.Flags().StringVar(&sweepOut, "out", "", "CSV output file (default stdout)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	traj, base, err := loadScenario()
	if err != nil {
		return err
	}
	if sweepSteps < 2 {
		return fmt.Errorf("a sweep needs at least 2 steps per axis")
	}
	deps := gridAround(base[0], sweepSpanDays*mgadsm.SecondsPerDay, sweepSteps)
	tofs := gridAround(base[1], sweepTOFDays*mgadsm.SecondsPerDay, sweepSteps)
	grid, err := traj.SweepDeparture(deps, tofs, base)
	if err != nil {
		return err
	}

	out := os.Stdout
	if sweepOut != "" {
		if out, err = os.Create(sweepOut); err != nil {
			return err
		}
		defer out.Close()
	}
	fmt.Fprintln(out, "departure_days,tof_days,deltav_ms")
	feasible := 0
	for _, row := range grid {
		for _, cell := range row {
			fmt.Fprintf(out, "%f,%f,%f\n", cell.DepartureEpoch/mgadsm.SecondsPerDay, cell.FirstTOF/mgadsm.SecondsPerDay, cell.DeltaV)
			if cell.Err == nil {
				feasible++
			}
		}
	}
	fmt.Fprintf(os.Stderr, "%d of %d grid cells feasible\n", feasible, len(deps)*len(tofs))
	return nil
}

// gridAround returns n values evenly spanning center +/- span/2.
func gridAround(center, span float64, n int) []float64 {
	values := make([]float64, n)
	step := span / float64(n-1)
	for i := range values {
		values[i] = center - span/2 + float64(i)*step
	}
	return values
}

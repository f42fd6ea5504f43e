package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChristopherRabotin/mgadsm"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate the scenario trajectory and report delta-v, flight time and metrics",
	RunE:  runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	traj, params, err := loadScenario()
	if err != nil {
		return err
	}
	if err = traj.Evaluate(params); err != nil {
		return err
	}

	dv, _ := traj.DeltaV()
	tof, _ := traj.TimeOfFlight()
	fmt.Printf("total delta-v: %.3f m/s over %.2f days\n", dv, tof/mgadsm.SecondsPerDay)

	nodes, _ := traj.Nodes()
	for _, n := range nodes {
		line := fmt.Sprintf("%-9s %-10s epoch %10.3f d  dv %8.3f m/s", n.Body.Name, n.Role, n.Epoch/mgadsm.SecondsPerDay, n.ΔV)
		if n.Role == mgadsm.RoleSwingby {
			line += fmt.Sprintf("  turn %6.2f deg  rP %.1f km", mgadsm.Rad2deg(n.TurnAngle), n.PeriapsisRadius/1e3)
		}
		fmt.Println(line)
	}
	legs, _ := traj.Legs()
	for i, l := range legs {
		if l.DSM != nil {
			fmt.Printf("leg %d DSM at epoch %.3f d: %.3f m/s\n", i+1, l.DSM.Epoch/mgadsm.SecondsPerDay, l.DSM.Magnitude())
		}
	}

	if err = reportMetrics(traj); err != nil {
		return err
	}

	conf := exportConfig()
	if conf.Filename != "" && !conf.IsUseless() {
		if err = traj.ExportHistory(conf); err != nil {
			return err
		}
	}
	return nil
}

func reportMetrics(traj *mgadsm.Trajectory) error {
	if !viper.IsSet("metrics") {
		return nil
	}
	mode := mgadsm.PointingSun
	if name := viper.GetString("metrics.pointing"); name != "" {
		var err error
		if mode, err = mgadsm.ParsePointingMode(name); err != nil {
			return err
		}
	}
	flux, err := traj.EffectiveSolarFlux(mode)
	if err != nil {
		return err
	}
	lo, hi := flux.Values[0], flux.Values[0]
	for _, v := range flux.Values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	fmt.Printf("solar flux (%s pointing): %.1f to %.1f W/m^2\n", mode, lo, hi)

	if f := viper.GetFloat64("metrics.frequency"); f > 0 {
		pw, err := traj.LinkBudget(f,
			viper.GetFloat64("metrics.tx_power"),
			viper.GetFloat64("metrics.tx_gain"),
			viper.GetFloat64("metrics.rx_gain"))
		if err != nil {
			return err
		}
		fmt.Printf("received power at arrival: %.3e W\n", pw.Values[pw.Len()-1])
	}

	minEl := mgadsm.Deg2rad(viper.GetFloat64("metrics.min_elevation"))
	for name := range viper.GetStringMap("stations") {
		comms, err := traj.CommunicationsTimePerDay(name, minEl)
		if err != nil {
			return err
		}
		total := 0.0
		for _, v := range comms.Values {
			total += v
		}
		fmt.Printf("station %s: %.1f h of visibility per day on average\n", name, total/float64(comms.Len())/3600)
	}
	return nil
}

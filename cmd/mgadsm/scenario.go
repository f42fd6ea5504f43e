package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ChristopherRabotin/mgadsm"
)

// loadScenario builds the trajectory and its parameter vector from the loaded
// scenario file. Scenario angles are in degrees and durations in days.
func loadScenario() (*mgadsm.Trajectory, []float64, error) {
	legType, err := mgadsm.LegTypeFromString(viper.GetString("mission.leg_type"))
	if err != nil {
		return nil, nil, err
	}
	sequence := viper.GetStringSlice("mission.sequence")

	cfg := mgadsm.Config{Logger: logger}
	if name := viper.GetString("mission.transfer_type"); name != "" {
		ttype, err := mgadsm.TransferTypeFromString(name)
		if err != nil {
			return nil, nil, err
		}
		cfg.TransferType = ttype
	}
	if viper.IsSet("departure_orbit.sma") {
		cfg.DepartureOrbit = &mgadsm.ParkingOrbit{
			SemiMajorAxis: viper.GetFloat64("departure_orbit.sma"),
			Eccentricity:  viper.GetFloat64("departure_orbit.ecc"),
		}
	}
	if viper.IsSet("arrival_orbit.sma") {
		cfg.ArrivalOrbit = &mgadsm.ParkingOrbit{
			SemiMajorAxis: viper.GetFloat64("arrival_orbit.sma"),
			Eccentricity:  viper.GetFloat64("arrival_orbit.ecc"),
		}
	}
	if samples := viper.GetInt("mission.samples_per_leg"); samples > 0 {
		cfg.SamplesPerLeg = samples
	}

	traj, err := mgadsm.New(legType, sequence, cfg)
	if err != nil {
		return nil, nil, err
	}

	params := []float64{viper.GetFloat64("mission.departure_days") * mgadsm.SecondsPerDay}
	tofs := floatSlice("mission.tof_days")
	if len(tofs) != len(sequence)-1 {
		return nil, nil, fmt.Errorf("%d times of flight for %d legs", len(tofs), len(sequence)-1)
	}
	for _, tof := range tofs {
		params = append(params, tof*mgadsm.SecondsPerDay)
	}
	params = append(params, floatSlice("mission.free")...)
	if want := traj.ParameterCount(); len(params) != want {
		return nil, nil, fmt.Errorf("scenario provides %d parameters, the trajectory needs %d", len(params), want)
	}

	for name := range viper.GetStringMap("stations") {
		key := "stations." + name
		lat := mgadsm.Deg2rad(viper.GetFloat64(key + ".latitude"))
		long := mgadsm.Deg2rad(viper.GetFloat64(key + ".longitude"))
		if err = traj.AddGroundStationSimple(name, lat, long); err != nil {
			return nil, nil, err
		}
	}
	return traj, params, nil
}

func floatSlice(key string) []float64 {
	raw := viper.Get(key)
	if raw == nil {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	values := make([]float64, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case float64:
			values[i] = v
		case int64:
			values[i] = float64(v)
		case int:
			values[i] = float64(v)
		}
	}
	return values
}

func exportConfig() mgadsm.ExportConfig {
	return mgadsm.ExportConfig{
		Filename:  viper.GetString("export.filename"),
		Cosmo:     viper.GetBool("export.cosmo"),
		AsCSV:     viper.GetBool("export.csv"),
		Timestamp: viper.GetBool("export.timestamp"),
		OutputDir: viper.GetString("export.output_dir"),
	}
}

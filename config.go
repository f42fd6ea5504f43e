package mgadsm

import (
	"os"
	"sync"

	"github.com/spf13/viper"
)

var (
	cfgOnce sync.Once
	config  = _mgadsmconfig{}
)

// _mgadsmconfig is a "hidden" struct, just use `mgadsmConfig`
type _mgadsmconfig struct {
	VSOP87    bool
	VSOP87Dir string
	outputDir string
}

// mgadsmConfig returns the library configuration. The MGADSM_CONFIG environment
// variable may point to a directory holding a conf.toml; without it everything
// falls back to the built-in defaults (mean-elements ephemeris, no output path).
func mgadsmConfig() _mgadsmconfig {
	cfgOnce.Do(func() {
		confPath := os.Getenv("MGADSM_CONFIG")
		if confPath == "" {
			return
		}
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			// A pointed-to but unreadable configuration is a setup error.
			panic(err)
		}
		config = _mgadsmconfig{
			VSOP87:    viper.GetBool("VSOP87.enabled"),
			VSOP87Dir: viper.GetString("VSOP87.directory"),
			outputDir: viper.GetString("general.output_path"),
		}
	})
	return config
}

// DefaultEphemeris returns the ephemeris provider selected by the configuration:
// VSOP87 when enabled, the built-in mean-elements provider otherwise.
func DefaultEphemeris() Ephemeris {
	cfg := mgadsmConfig()
	if cfg.VSOP87 {
		return NewVSOP87Ephemeris(cfg.VSOP87Dir)
	}
	return NewMeanElementsEphemeris()
}

package main

import (
	"fmt"
	"os"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	scenario string
	verbose  bool
	logger   kitlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mgadsm",
	Short: "Multi-gravity-assist trajectory evaluator",
	Long:  "mgadsm evaluates interplanetary transfers with gravity assists and optional deep-space maneuvers from a TOML scenario file.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
		if !verbose {
			logger = kitlog.NewNopLogger()
		}
		if scenario == "" {
			return fmt.Errorf("no scenario provided")
		}
		scenario = strings.Replace(scenario, ".toml", "", 1)
		viper.AddConfigPath(".")
		viper.SetConfigName(scenario)
		viper.SetConfigType("toml")
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("./%s.toml: %s", scenario, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenario, "scenario", "", "scenario TOML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace leg and node resolution")
	rootCmd.AddCommand(evaluateCmd, sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cmd wires the CLI surface: `infersim run <preset>` and
// `infersim dump-config <preset>`, sharing a --config path and --log level
// flag through a single cobra rootCmd.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "infersim.yaml"

var (
	configPath string
	logLevel   string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "infersim",
	Short: "Discrete-event simulator for dynamic deep-learning inference serving",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to the RunConfig YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpConfigCmd)
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadEffectiveConfigOrExit reads --config and merges the named preset,
// exiting with a diagnostic on any ConfigError per the error-handling
// design: a ConfigError is surfaced at the CLI boundary and never causes a
// panic. The default --config path is optional: if it doesn't exist on
// disk, loading falls back to config.Default() rather than erroring.
// Default() defines no presets, so without a config file only an empty
// preset name resolves; any other name is an unknown-preset ConfigError. A
// path the user explicitly points at a missing file still errors.
func loadEffectiveConfigOrExit(preset string) *effectiveConfigResult {
	path := configPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	res, err := buildEffectiveConfig(path, preset)
	if err != nil {
		logrus.Errorf("config error: %v", err)
		os.Exit(1)
	}
	return res
}

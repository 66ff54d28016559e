package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pdptw/config"
	"github.com/kilianp07/pdptw/qa/scenarios"
)

var (
	cfgPath      string
	scenarioPath string
)

var rootCmd = &cobra.Command{
	Use:          "pdptw",
	Short:        "Dynamic pickup and delivery decision layer",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (defaults and K_ environment when empty)")
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file describing the world")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadScenario() (*scenarios.Loaded, error) {
	if scenarioPath == "" {
		return nil, fmt.Errorf("--scenario is required")
	}
	l, err := scenarios.LoadWorld(scenarioPath)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	return l, nil
}

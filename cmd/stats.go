package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/pdptw/app"
	"github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/infra/logger"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Score the routes vehicles follow in a scenario",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadScenario()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, l.World, app.WithSink(metrics.NopSink{}))
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("stats").Errorf("service close: %v", err)
		}
	}()
	dec, err := svc.Score(cmd.Context())
	if err != nil {
		return err
	}
	return printDecision(cmd.OutOrStdout(), l, dec, cfg.Objective.Objective().PrintHumanReadableFormat(dec.Stats), statsJSON)
}

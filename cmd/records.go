package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kilianp07/pdptw/config"
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	"github.com/kilianp07/pdptw/core/solver/recordlog"
	"github.com/kilianp07/pdptw/core/stats"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

var (
	recordsSolver string
	recordsParcel string
	recordsSince  time.Duration
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List recorded solves, replaying them on the scenario road model when given",
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().StringVar(&recordsSolver, "solver", "", "only solves of this solver")
	recordsCmd.Flags().StringVar(&recordsParcel, "parcel", "", "only solves mentioning this parcel id")
	recordsCmd.Flags().DurationVar(&recordsSince, "since", 0, "only solves younger than this")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := recordlog.Open(cfg.RecordLog)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("record log disabled, set recordlog.backend")
	}
	defer func() { _ = store.Close() }()

	q := recordlog.Query{Solver: recordsSolver}
	if recordsParcel != "" {
		if q.ParcelID, err = uuid.Parse(recordsParcel); err != nil {
			return fmt.Errorf("parcel id: %w", err)
		}
	}
	if recordsSince > 0 {
		q.Start = time.Now().Add(-recordsSince)
	}
	entries, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	var tt traveltimes.TravelTimes
	if scenarioPath != "" {
		l, err := loadScenario()
		if err != nil {
			return err
		}
		tt = l.World.TravelTimes()
	}
	out := cmd.OutOrStdout()
	for _, e := range entries {
		if err := printEntry(out, e, tt, cfg.Objective); err != nil {
			return err
		}
	}
	return nil
}

func printEntry(w io.Writer, e recordlog.Entry, tt traveltimes.TravelTimes, obj config.ObjectiveConfig) error {
	status := "ok"
	if e.Error != "" {
		status = e.Error
	}
	line := fmt.Sprintf("%s %s %s vehicles=%d available=%d duration=%s %s",
		e.ID, e.Timestamp.Format(time.RFC3339), e.Solver,
		len(e.Input.Vehicles), len(e.Input.Available), e.Duration, status)
	if tt != nil && e.Output != nil {
		cost, err := replayCost(e, tt, obj)
		if err != nil {
			line += fmt.Sprintf(" replay=%v", err)
		} else {
			line += fmt.Sprintf(" cost=%.2f", cost)
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// replayCost restores the recorded input on tt and scores the recorded
// output.
func replayCost(e recordlog.Entry, tt traveltimes.TravelTimes, obj config.ObjectiveConfig) (float64, error) {
	s, idx, err := snapshot.FromRecord(e.Input, tt)
	if err != nil {
		return 0, err
	}
	routes := make([]model.Route, len(e.Output))
	for i, ids := range e.Output {
		r, err := snapshot.Resolve(idx, ids)
		if err != nil {
			return 0, err
		}
		routes[i] = r
	}
	st, err := stats.Compute(s, routes)
	if err != nil {
		return 0, err
	}
	return obj.Objective().ComputeCost(st), nil
}

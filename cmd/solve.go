package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pdptw/app"
	"github.com/kilianp07/pdptw/infra/logger"
	"github.com/kilianp07/pdptw/qa/scenarios"
)

var solveJSON bool

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run one decision on a scenario and print the routes",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print statistics as JSON")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := loadScenario()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, l.World)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("solve").Errorf("service close: %v", err)
		}
	}()
	if timeout := cfg.Serve.SolveTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	dec, err := svc.Decide(ctx)
	if err != nil {
		return err
	}
	return printDecision(cmd.OutOrStdout(), l, dec, cfg.Objective.Objective().PrintHumanReadableFormat(dec.Stats), solveJSON)
}

func printDecision(w io.Writer, l *scenarios.Loaded, dec app.Decision, summary string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Routes map[string][]string `json:"routes"`
			Cost   float64             `json:"cost"`
			Valid  bool                `json:"valid"`
			Stats  any                 `json:"stats"`
		}{routeNames(l, dec), dec.Cost, dec.Valid, dec.Stats})
	}
	names := routeNames(l, dec)
	for i, v := range l.Scenario.Vehicles {
		if i >= len(dec.Routes) {
			break
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", v.ID, strings.Join(names[v.ID], " ")); err != nil {
			return err
		}
	}
	valid := "valid"
	if !dec.Valid {
		valid = "invalid"
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", summary, valid)
	return err
}

func routeNames(l *scenarios.Loaded, dec app.Decision) map[string][]string {
	out := make(map[string][]string, len(dec.Routes))
	for i, r := range dec.Routes {
		if i >= len(l.Scenario.Vehicles) {
			break
		}
		names := make([]string, len(r))
		for j, p := range r {
			names[j] = l.Name(p)
		}
		out[l.Scenario.Vehicles[i].ID] = names
	}
	return out
}

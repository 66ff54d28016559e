package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	coremetrics "github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/core/solver"
)

var solversCmd = &cobra.Command{
	Use:   "solvers",
	Short: "List the available solver types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printNames(cmd, solver.Names())
	},
}

var sinksCmd = &cobra.Command{
	Use:   "sinks",
	Short: "List the available metrics sink types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printNames(cmd, coremetrics.SinkTypes())
	},
}

func printNames(cmd *cobra.Command, names []string) error {
	for _, n := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), n); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(solversCmd, sinksCmd)
}

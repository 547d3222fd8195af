package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"compass/internal/runrecord"
)

var runsFlags struct {
	db      string
	graphID string
	runID   string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded scenario executions",
	Long: "Lists recorded runs newest first. With --run, prints one run with every\n" +
		"selector resolution it observed.",
	RunE: runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.StringVar(&runsFlags.db, "db", "", "Run database path (default from project config)")
	f.StringVar(&runsFlags.graphID, "graph", "", "Only runs of this graph id")
	f.StringVar(&runsFlags.runID, "run", "", "Show one run in detail")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	dbPath := runsFlags.db
	if dbPath == "" {
		dbPath = cfg.Database
	}
	store, err := runrecord.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if runsFlags.runID != "" {
		run, err := store.Run(ctx, runsFlags.runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Run:      %s\n", run.ID)
		fmt.Fprintf(out, "Scenario: %s\n", run.Scenario)
		fmt.Fprintf(out, "Graph:    %s\n", run.GraphID)
		fmt.Fprintf(out, "Outcome:  %s\n", run.Outcome)
		fmt.Fprintf(out, "Duration: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
		if run.FailedStep != "" {
			fmt.Fprintf(out, "Failed:   %s\n", run.FailedStep)
		}
		if run.Error != "" {
			fmt.Fprintf(out, "Error:    %s\n", run.Error)
		}

		resolutions, err := store.Resolutions(ctx, run.ID)
		if err != nil {
			return err
		}
		if len(resolutions) > 0 {
			fmt.Fprintf(out, "Resolutions:\n")
			for _, r := range resolutions {
				if r.Error != "" {
					fmt.Fprintf(out, "  %s: FAILED %s\n", r.StepText, r.Error)
					continue
				}
				fmt.Fprintf(out, "  %s: %s via %s (%s)\n", r.StepText, r.Selector, r.Strategy, r.Confidence)
			}
		}
		return nil
	}

	runs, err := store.ListRuns(ctx, runsFlags.graphID)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No recorded runs in %s\n", dbPath)
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %-20s  %s\n",
			run.StartedAt.Format(time.RFC3339), run.ID, run.Outcome, run.Scenario)
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"nickandperla.net/tapebf"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns instead of exiting so deferred shutdowns always happen.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("runs", flag.ContinueOnError)
	flags.SetOutput(stderr)
	toolConfigPath := flags.String("config", "./config.toml", "The config file for tapebf tools to use")
	limit := flags.Int("limit", 20, "How many of the newest runs to list (0 lists all)")
	pruneKeep := flags.Int("prune-keep", -1, "Delete all but the newest N runs (-1 disables pruning)")
	dryRun := flags.Bool("dry-run", false, "Preview what would be deleted without actually deleting")
	if err := flags.Parse(args); err != nil {
		return tapebf.ExitToolFailure
	}

	toolConfig, err := tapebf.LoadToolConfig(*toolConfigPath, false)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to load tapebf config: %v\n", err)
		return tapebf.ExitToolFailure
	}

	logger, closer, err := tapebf.NewLogger(toolConfig.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to set up logging: %v\n", err)
		return tapebf.ExitToolFailure
	}
	defer closer.Close()

	persist, err := tapebf.NewPersistence(toolConfig.Persistence)
	if err != nil {
		logger.Error("create or initialize Persistence", "error", err)
		return tapebf.ExitToolFailure
	}
	defer func() {
		if err := persist.Shutdown(); err != nil {
			logger.Error("shut down Persistence", "error", err)
		}
	}()

	if *pruneKeep >= 0 {
		if *dryRun {
			logger.Info("DRY RUN: previewing prune", "keep", *pruneKeep)
		} else {
			logger.Info("pruning run journal", "keep", *pruneKeep)
		}

		result, err := persist.PruneRuns(*pruneKeep, *dryRun)
		if err != nil {
			logger.Error("prune failed", "error", err)
			return tapebf.ExitToolFailure
		}

		fmt.Fprintf(stdout, "Run journal prune %s:\n", map[bool]string{true: "(dry run)", false: "complete"}[*dryRun])
		fmt.Fprintf(stdout, "  Total runs:    %d\n", result.TotalRuns)
		fmt.Fprintf(stdout, "  Runs kept:     %d\n", result.KeptRuns)
		fmt.Fprintf(stdout, "  Runs deleted:  %d\n", result.DeletedRuns)
		return tapebf.ExitSuccess
	}

	metrics, err := persist.QueryMetrics()
	if err != nil {
		logger.Error("query metrics failed", "error", err)
		return tapebf.ExitToolFailure
	}

	fmt.Fprintf(stdout, "Runs: %d  avg instructions: %.1f  max instructions: %d  max output: %d\n",
		metrics.TotalRuns, metrics.AvgInstructionCount, metrics.MaxInstructionCount, metrics.MaxOutputLength)
	for _, outcome := range metrics.OutcomeNames() {
		fmt.Fprintf(stdout, "  %-20s %d\n", outcome, metrics.Outcomes[outcome])
	}

	records, err := persist.ListRuns(*limit)
	if err != nil {
		logger.Error("list runs failed", "error", err)
		return tapebf.ExitToolFailure
	}

	for _, r := range records {
		msg := ""
		if r.Error != nil {
			msg = *r.Error
		}
		fmt.Fprintf(stdout, "%5d %s exit=%d cells=%d steps=%d output=%q %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.ExitCode, r.CellCount, r.InstructionCount, r.Output, msg)
	}
	return tapebf.ExitSuccess
}

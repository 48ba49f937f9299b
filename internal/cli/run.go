package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/popsim/internal/engine"
	"github.com/roach88/popsim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	CSVPath  string
	Database string
	Table    bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <task.yaml>",
		Short: "Simulate a task and report the resulting populations",
		Long: `Load a task description, run the simulation to completion and render
the resulting per-step populations.

Example:
  popsim run task.yaml
  popsim run task.yaml --csv out.csv --db runs.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CSVPath, "csv", "", "export the result series to a CSV file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the run in a SQLite database")
	cmd.Flags().BoolVar(&opts.Table, "table", true, "print the result table")

	return cmd
}

func runTask(opts *RunOptions, taskPath string, cmd *cobra.Command) error {
	task, err := LoadTask(taskPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load task", err)
	}
	slog.Info("task loaded",
		"path", taskPath,
		"states", len(task.States),
		"transitions", len(task.Transitions),
		"steps", task.StepsCount,
	)

	calc, err := engine.New(task, engine.WithProgress(func(p float64) {
		slog.Debug("progress", "value", p)
	}))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to construct engine", err)
	}

	res, err := calc.CalculateSync(cmdContext(cmd))
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	out := cmd.OutOrStdout()
	if opts.Table {
		if err := renderTable(out, res); err != nil {
			return WrapExitError(ExitCommandError, "failed to render table", err)
		}
	}
	writeSummary(out, task.Name, res)

	if opts.CSVPath != "" {
		if err := writeCSV(opts.CSVPath, res); err != nil {
			return WrapExitError(ExitCommandError, "failed to export csv", err)
		}
		slog.Info("csv written", "path", opts.CSVPath)
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		runID, err := st.WriteRun(cmdContext(cmd), task.Name, res)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
		slog.Info("run archived", "id", runID, "db", opts.Database)
	}

	return nil
}

// cmdContext returns the command's context, falling back to Background for
// commands constructed outside Execute (tests).
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

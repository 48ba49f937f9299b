package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/popsim/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs",
		Long: `List the runs archived in a SQLite database, oldest first.

Example:
  popsim history --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite archive (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmdContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no archived runs")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tname\tsteps\tstates\tcreated")
	for _, rec := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			rec.ID, rec.Name, rec.StepsCount, rec.StatesCount, rec.CreatedAt)
	}
	if err := tw.Flush(); err != nil {
		return WrapExitError(ExitCommandError, "failed to render history", err)
	}
	printer.Fprintf(out, "%d archived runs, %d data points\n", len(runs), totalPoints(runs))
	return nil
}

func totalPoints(runs []store.RunRecord) int {
	total := 0
	for _, rec := range runs {
		total += rec.StepsCount * rec.StatesCount
	}
	return total
}

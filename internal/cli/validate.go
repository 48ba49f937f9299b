package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <task.yaml>",
		Short: "Check a task description without running it",
		Long: `Parse a task description and run the same validation the engine applies
at construction: unknown state references, negative counts, coefficients,
delays or steps.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := LoadTask(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "task invalid", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task valid: %d states, %d transitions, %d steps\n",
				len(task.States), len(task.Transitions), task.StepsCount)
			return nil
		},
	}
	return cmd
}

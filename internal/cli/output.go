package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/popsim/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Run or validation failure
	ExitCommandError = 2 // Command error (invalid paths, unreadable task file, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// printer formats human-readable numbers with locale grouping separators.
var printer = message.NewPrinter(language.English)

// renderTable writes the tabular result shape: one row per step with the
// step index, the x coordinate and one column per state.
func renderTable(w io.Writer, res model.Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprint(tw, "step\tx")
	for _, name := range res.StateNames {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)
	for step, row := range res.Table {
		fmt.Fprintf(tw, "%d\t%d", step, res.StartPoint+step)
		for _, v := range row {
			fmt.Fprintf(tw, "\t%s", formatValue(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// seriesRow is the long-format CSV shape: one row per state and step.
type seriesRow struct {
	State string  `csv:"state"`
	Step  int     `csv:"step"`
	X     int     `csv:"x"`
	Value float64 `csv:"value"`
}

// writeCSV exports the chart series to a long-format CSV file.
func writeCSV(path string, res model.Result) error {
	rows := make([]seriesRow, 0, len(res.Chart)*res.StepsCount())
	for _, series := range res.Chart {
		for step, y := range series.Y {
			rows = append(rows, seriesRow{
				State: series.Name,
				Step:  step,
				X:     series.X[step],
				Value: y,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write csv file %s: %w", path, err)
	}
	return nil
}

// writeSummary prints the one-line run summary with grouped numbers.
func writeSummary(w io.Writer, taskName string, res model.Result) {
	name := taskName
	if name == "" {
		name = "task"
	}
	printer.Fprintf(w, "%s: simulated %d steps across %d states\n",
		name, res.StepsCount(), len(res.StateNames))
}

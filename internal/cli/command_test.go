package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand_PrintsTableAndSummary(t *testing.T) {
	out, err := executeCommand(t, "run", filepath.Join("testdata", "pump.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "step  x  A    B")
	assert.Contains(t, out, "2     2  100  100")
	assert.Contains(t, out, "two-state pump: simulated 3 steps across 2 states")
}

func TestRunCommand_NoTable(t *testing.T) {
	out, err := executeCommand(t, "run", filepath.Join("testdata", "pump.yaml"), "--table=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "step  x")
	assert.Contains(t, out, "simulated 3 steps")
}

func TestRunCommand_MissingTask(t *testing.T) {
	_, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_ArchiveAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := executeCommand(t, "run", filepath.Join("testdata", "pump.yaml"), "--db", db, "--table=false")
	require.NoError(t, err)

	out, err := executeCommand(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "two-state pump")
	assert.Contains(t, out, "1 archived runs, 6 data points")
}

func TestRunCommand_CSVExport(t *testing.T) {
	csv := filepath.Join(t.TempDir(), "out.csv")

	_, err := executeCommand(t, "run", filepath.Join("testdata", "pump.yaml"), "--csv", csv, "--table=false")
	require.NoError(t, err)
	assert.FileExists(t, csv)
}

func TestValidateCommand_OK(t *testing.T) {
	out, err := executeCommand(t, "validate", filepath.Join("testdata", "pump.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "task valid: 2 states, 1 transitions, 3 steps")
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, `
name: bad
steps_count: -3
states: []
transitions: []
`)
	_, err := executeCommand(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

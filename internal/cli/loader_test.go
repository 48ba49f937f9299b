package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/popsim/internal/model"
)

func TestLoadTask_Valid(t *testing.T) {
	task, err := LoadTask(filepath.Join("testdata", "pump.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "two-state pump", task.Name)
	assert.Equal(t, 3, task.StepsCount)
	require.Len(t, task.States, 2)
	assert.Equal(t, model.State{ID: 1, Name: "A", Count: 100}, task.States[0])
	require.Len(t, task.Transitions, 1)
	tr := task.Transitions[0]
	assert.Equal(t, model.ExternalState, tr.OperandState)
	assert.Equal(t, model.Linear, tr.Type)
	assert.Equal(t, model.Simple, tr.Mode)
	assert.Equal(t, 0.5, tr.Probability)
}

func TestLoadTask_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
steps_count: 2
states: []
transitions: []
stepz: 5
`), 0o644))

	_, err := LoadTask(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse task file")
}

func TestLoadTask_RejectsInvalidTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: broken
steps_count: -1
states: []
transitions: []
`), 0o644))

	_, err := LoadTask(path)
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestLoadTask_MissingFile(t *testing.T) {
	_, err := LoadTask(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read task file")
}

package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/popsim/internal/model"
)

// LoadTask reads and validates a YAML task description.
//
// Unknown fields are rejected, so a typoed key fails loudly instead of
// silently defaulting.
func LoadTask(path string) (model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Task{}, fmt.Errorf("read task file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var task model.Task
	if err := dec.Decode(&task); err != nil {
		return model.Task{}, fmt.Errorf("parse task file %s: %w", path, err)
	}

	if err := task.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("task file %s: %w", path, err)
	}

	return task, nil
}

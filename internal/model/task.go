package model

import (
	"errors"
	"fmt"
)

// Task is a complete simulation description: the ordered state list, the
// ordered transition rule book, and the run parameters.
//
// Tasks are consumed read-only by the engine. StepsCount is the number of
// grid rows produced, including row 0 (the initial counts); StartPoint is the
// x-axis coordinate of row 0 in the packaged result.
type Task struct {
	Name string `yaml:"name,omitempty"`

	States      []State      `yaml:"states"`
	Transitions []Transition `yaml:"transitions"`

	StartPoint int `yaml:"start_point"`
	StepsCount int `yaml:"steps_count"`

	Parallel       bool `yaml:"parallel"`
	HigherAccuracy bool `yaml:"higher_accuracy"`
	AllowNegative  bool `yaml:"allow_negative"`
}

// ValidationError describes a single defect found in a task.
//
// Transition is the index of the offending transition, or -1 for task-level
// defects. Field names the offending field in task-file notation.
type ValidationError struct {
	Field      string
	Transition int
	Reason     string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Transition >= 0 {
		return fmt.Sprintf("invalid task: transition %d: %s: %s", e.Transition, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid task: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the task against the constraints the engine assumes.
//
// It rejects a negative steps count, transitions referencing unknown state
// ids, and negative counts, coefficients or delays. Probability is
// deliberately not range-checked.
func (t Task) Validate() error {
	if t.StepsCount < 0 {
		return &ValidationError{
			Field:      "steps_count",
			Transition: -1,
			Reason:     fmt.Sprintf("must be non-negative, got %d", t.StepsCount),
		}
	}
	known := make(map[int]bool, len(t.States))
	for i, s := range t.States {
		if s.ID == ExternalState {
			return &ValidationError{
				Field:      "states",
				Transition: -1,
				Reason:     fmt.Sprintf("state %d uses the reserved external id %d", i, ExternalState),
			}
		}
		if s.Count < 0 {
			return &ValidationError{
				Field:      "states",
				Transition: -1,
				Reason:     fmt.Sprintf("state %q has negative initial count %v", s.Name, s.Count),
			}
		}
		known[s.ID] = true
	}
	for i, tr := range t.Transitions {
		states := []struct {
			field string
			id    int
		}{
			{"source", tr.SourceState},
			{"operand", tr.OperandState},
			{"result", tr.ResultState},
		}
		for _, ref := range states {
			if ref.id != ExternalState && !known[ref.id] {
				return &ValidationError{
					Field:      ref.field,
					Transition: i,
					Reason:     fmt.Sprintf("unknown state id %d", ref.id),
				}
			}
		}
		coefficients := []struct {
			field string
			value float64
		}{
			{"source_coefficient", tr.SourceCoefficient},
			{"operand_coefficient", tr.OperandCoefficient},
			{"result_coefficient", tr.ResultCoefficient},
		}
		for _, c := range coefficients {
			if c.value < 0 {
				return &ValidationError{
					Field:      c.field,
					Transition: i,
					Reason:     fmt.Sprintf("must be non-negative, got %v", c.value),
				}
			}
		}
		delays := []struct {
			field string
			value int
		}{
			{"source_delay", tr.SourceDelay},
			{"operand_delay", tr.OperandDelay},
		}
		for _, d := range delays {
			if d.value < 0 {
				return &ValidationError{
					Field:      d.field,
					Transition: i,
					Reason:     fmt.Sprintf("must be non-negative, got %d", d.value),
				}
			}
		}
	}
	return nil
}

// MaxDelay returns the largest source or operand delay across all
// transitions. It sizes the high-precision history window.
func (t Task) MaxDelay() int {
	maxDelay := 0
	for _, tr := range t.Transitions {
		if tr.SourceDelay > maxDelay {
			maxDelay = tr.SourceDelay
		}
		if tr.OperandDelay > maxDelay {
			maxDelay = tr.OperandDelay
		}
	}
	return maxDelay
}

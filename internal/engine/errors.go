package engine

import (
	"errors"
	"fmt"
)

// WorkerError reports a failed transition evaluation.
//
// A worker failure aborts the step and propagates out of the run; the run
// never retries internally. Cancellation is not a worker failure - cancelled
// transition tasks are absorbed silently.
type WorkerError struct {
	// Step is the step being evaluated when the failure occurred.
	Step int

	// Transition is the index of the failed transition in the task's rule book.
	Transition int

	// Err is the underlying failure (typically a numeric kernel error).
	Err error
}

// Error implements the error interface.
func (e *WorkerError) Error() string {
	return fmt.Sprintf("step %d: transition %d: %v", e.Step, e.Transition, e.Err)
}

// Unwrap returns the underlying failure.
func (e *WorkerError) Unwrap() error {
	return e.Err
}

// IsWorkerError reports whether err is (or wraps) a WorkerError.
func IsWorkerError(err error) bool {
	var we *WorkerError
	return errors.As(err, &we)
}

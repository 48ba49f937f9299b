// Package testutil provides deterministic helpers shared by the package tests.
package testutil

import (
	"sync"

	"github.com/roach88/popsim/internal/model"
)

// ProgressRecorder captures every progress value a run emits, in order.
//
// Thread-safety: safe for concurrent use, although progress callbacks run
// inline on the driver goroutine.
type ProgressRecorder struct {
	mu     sync.Mutex
	values []float64
}

// Record implements the progress callback.
func (r *ProgressRecorder) Record(p float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, p)
}

// Values returns a copy of the recorded progress values.
func (r *ProgressRecorder) Values() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// ResultRecorder captures results delivered through the result callback.
type ResultRecorder struct {
	mu      sync.Mutex
	results []model.Result
	done    chan struct{}
}

// NewResultRecorder creates a recorder whose Done channel closes after the
// first delivery. Useful for awaiting asynchronous runs.
func NewResultRecorder() *ResultRecorder {
	return &ResultRecorder{done: make(chan struct{})}
}

// Record implements the result callback.
func (r *ResultRecorder) Record(res model.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	if len(r.results) == 1 {
		close(r.done)
	}
}

// Done closes after the first result is delivered.
func (r *ResultRecorder) Done() <-chan struct{} {
	return r.done
}

// Results returns a copy of the recorded results.
func (r *ResultRecorder) Results() []model.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Result, len(r.results))
	copy(out, r.results)
	return out
}

package engine

import (
	"sync"

	"github.com/cockroachdb/apd/v3"
	"gonum.org/v1/gonum/floats"

	"github.com/roach88/popsim/internal/model"
	"github.com/roach88/popsim/internal/numeric"
)

// grid holds the per-step, per-state populations of a run.
//
// states is the full finite-precision history, indexed [step][stateIndex];
// row 0 carries the initial counts. window is the high-precision sliding
// history of maxDelay+2 rows, present only in high-accuracy mode: slot 0 is
// the row being computed, slots 1..maxDelay+1 the most recent finalized rows.
//
// One mutex guards both representations. Whenever a decimal cell is written,
// the float64 projection for the current step is updated inside the same
// critical section, so the two representations agree on every release point.
type grid struct {
	mu     sync.Mutex
	states [][]float64
	window [][]*apd.Decimal
	count  int
}

func newGrid(task model.Task) *grid {
	rows := task.StepsCount
	if rows < 1 {
		// A zero-step task still produces row 0 (the initial counts).
		rows = 1
	}
	count := len(task.States)
	states := make([][]float64, rows)
	for i := range states {
		states[i] = make([]float64, count)
	}
	for i, s := range task.States {
		states[0][i] = s.Count
	}
	g := &grid{states: states, count: count}
	if task.HigherAccuracy {
		window := make([][]*apd.Decimal, task.MaxDelay()+2)
		for i := range window {
			window[i] = make([]*apd.Decimal, count)
		}
		for i, s := range task.States {
			v := numeric.FromFloat(s.Count)
			window[0][i] = v
			window[1][i] = v
		}
		g.window = window
	}
	return g
}

// state returns the population of a state at a step.
func (g *grid) state(step, state int) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.states[step][state]
}

// increment adds value to a state at a step.
func (g *grid) increment(step, state int, value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.states[step][state] += value
}

// decrement subtracts value from a state at a step.
func (g *grid) decrement(step, state int, value float64) {
	g.increment(step, state, -value)
}

// stateBig returns the decimal population of a state at a step. The window
// addresses a row by currentStep - step (0 = the row being computed).
func (g *grid) stateBig(step, currentStep, state int) *apd.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.window[currentStep-step][state]
}

// incrementBig adds value to a decimal cell and refreshes its float64
// projection for the same step.
func (g *grid) incrementBig(step, currentStep, state int, value *apd.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := currentStep - step
	result := numeric.Add(g.window[idx][state], value)
	g.window[idx][state] = result
	g.states[step][state] = numeric.ToFloat(result)
}

// decrementBig subtracts value from a decimal cell and refreshes its float64
// projection for the same step.
func (g *grid) decrementBig(step, currentStep, state int, value *apd.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := currentStep - step
	result := numeric.Sub(g.window[idx][state], value)
	g.window[idx][state] = result
	g.states[step][state] = numeric.ToFloat(result)
}

// copyPrevious initializes row step from row step-1. Called by the driver
// between transition batches; no transition evaluator runs concurrently.
func (g *grid) copyPrevious(step int) {
	copy(g.states[step], g.states[step-1])
}

// copyPreviousBig slides the history window by one row and carries the prior
// step forward into slot 0, refreshing the float64 projections of the new row.
func (g *grid) copyPreviousBig(step, currentStep int) {
	idx := currentStep - step
	if idx == 0 {
		for i := len(g.window) - 1; i >= 1; i-- {
			copy(g.window[i], g.window[i-1])
		}
	}
	for state := 0; state < g.count; state++ {
		v := g.window[idx+1][state]
		g.window[idx][state] = v
		g.states[step][state] = numeric.ToFloat(v)
	}
}

// total sums row step. Called by the driver between transition batches.
func (g *grid) total(step int) float64 {
	return floats.Sum(g.states[step])
}

// totalBig sums the decimal row for step.
func (g *grid) totalBig(step, currentStep int) *apd.Decimal {
	total := apd.New(0, 0)
	for state := 0; state < g.count; state++ {
		total = numeric.Add(total, g.window[currentStep-step][state])
	}
	return total
}

// releaseWindow drops the high-precision history after a run.
func (g *grid) releaseWindow() {
	g.window = nil
}

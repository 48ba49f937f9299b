package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/popsim/internal/model"
	"github.com/roach88/popsim/internal/numeric"
)

func highAccuracyTask(counts ...float64) model.Task {
	states := make([]model.State, len(counts))
	for i, c := range counts {
		states[i] = model.State{ID: i + 1, Name: string(rune('A' + i)), Count: c}
	}
	return model.Task{States: states, StepsCount: 4, HigherAccuracy: true}
}

func TestGrid_RowZero(t *testing.T) {
	g := newGrid(highAccuracyTask(12.5, 0, 7))
	assert.Equal(t, []float64{12.5, 0, 7}, g.states[0])
	for i, want := range []float64{12.5, 0, 7} {
		assert.Equal(t, want, numeric.ToFloat(g.window[0][i]))
		assert.Equal(t, want, numeric.ToFloat(g.window[1][i]))
	}
}

// Every decimal write refreshes the float64 projection of the same cell
// inside the same critical section.
func TestGrid_RepresentationAgreement(t *testing.T) {
	g := newGrid(highAccuracyTask(10, 0))

	g.copyPreviousBig(1, 1)
	g.incrementBig(1, 1, 1, numeric.FromFloat(2.5))
	g.decrementBig(1, 1, 0, numeric.FromFloat(2.5))

	assert.Equal(t, 7.5, g.states[1][0])
	assert.Equal(t, 2.5, g.states[1][1])
	assert.Equal(t, numeric.ToFloat(g.window[0][0]), g.states[1][0])
	assert.Equal(t, numeric.ToFloat(g.window[0][1]), g.states[1][1])
}

func TestGrid_WindowSlide(t *testing.T) {
	task := highAccuracyTask(100)
	task.Transitions = []model.Transition{{
		SourceState:  1,
		OperandState: model.ExternalState,
		ResultState:  1,
		SourceDelay:  1,
	}}
	g := newGrid(task)
	require.Len(t, g.window, 3)

	// Step 1: slot 0 is the new row, slot 1 the previous step.
	g.copyPreviousBig(1, 1)
	g.decrementBig(1, 1, 0, numeric.FromFloat(10))
	assert.Equal(t, 90.0, numeric.ToFloat(g.window[0][0]))
	assert.Equal(t, 100.0, numeric.ToFloat(g.window[1][0]))

	// Step 2: the window slides; the delayed read one step back sees row 1.
	g.copyPreviousBig(2, 2)
	assert.Equal(t, 90.0, numeric.ToFloat(g.window[0][0]))
	assert.Equal(t, 90.0, numeric.ToFloat(g.window[1][0]))
	assert.Equal(t, 100.0, numeric.ToFloat(g.window[2][0]))
	assert.Equal(t, 90.0, numeric.ToFloat(g.stateBig(1, 2, 0)))

	g.releaseWindow()
	assert.Nil(t, g.window)
}

func TestGrid_TotalMatchesSum(t *testing.T) {
	g := newGrid(highAccuracyTask(1.5, 2.5, 6))
	assert.Equal(t, 10.0, g.total(0))
	assert.Equal(t, 10.0, numeric.ToFloat(g.totalBig(0, 0)))
}

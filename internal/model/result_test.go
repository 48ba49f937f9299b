package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResult_Shapes(t *testing.T) {
	grid := [][]float64{
		{10, 0},
		{8, 2},
		{6, 4},
	}
	states := []State{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	res := NewResult(5, grid, states, true, true, false)

	assert.Equal(t, []string{"A", "B"}, res.StateNames)
	assert.Equal(t, 3, res.StepsCount())
	assert.Equal(t, grid, res.Table)

	require.Len(t, res.Chart, 2)
	assert.Equal(t, "A", res.Chart[0].Name)
	assert.Equal(t, []int{5, 6, 7}, res.Chart[0].X)
	assert.Equal(t, []float64{10, 8, 6}, res.Chart[0].Y)
	assert.Equal(t, []float64{0, 2, 4}, res.Chart[1].Y)
}

func TestNewResult_OmitsUnrequestedShapes(t *testing.T) {
	grid := [][]float64{{1}}
	states := []State{{ID: 1, Name: "A"}}

	res := NewResult(0, grid, states, false, true, false)
	assert.Nil(t, res.Table)
	assert.NotNil(t, res.Chart)

	res = NewResult(0, grid, states, true, false, false)
	assert.NotNil(t, res.Table)
	assert.Nil(t, res.Chart)
	assert.Equal(t, 1, res.StepsCount())
}

// Clipping clamps negatives to zero in the packaged copies only; the grid is
// handed over unmodified.
func TestNewResult_ClipsNegatives(t *testing.T) {
	grid := [][]float64{
		{10, -2},
		{-1, 4},
	}
	states := []State{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	res := NewResult(0, grid, states, true, true, true)
	assert.Equal(t, [][]float64{{10, 0}, {0, 4}}, res.Table)
	assert.Equal(t, []float64{10, 0}, res.Chart[0].Y)
	assert.Equal(t, []float64{0, 4}, res.Chart[1].Y)

	// Source grid untouched.
	assert.Equal(t, [][]float64{{10, -2}, {-1, 4}}, grid)

	passthrough := NewResult(0, grid, states, true, false, false)
	assert.Equal(t, grid, passthrough.Table)
}

package model

// Series is one state's population trajectory, labelled for display.
// X holds the x-axis coordinates starting at the task's start point.
type Series struct {
	Name string
	X    []int
	Y    []float64
}

// Result is the packaged output of a finished run.
//
// Table is row-per-step with one column per state; Chart is one Series per
// state. Either may be nil when the corresponding shape was not requested.
// When negatives were clipped, the clipping applies only to the packaged
// copies; the engine's grid is handed over unmodified.
type Result struct {
	StartPoint int
	StateNames []string
	Table      [][]float64
	Chart      []Series
}

// StepsCount returns the number of packaged steps (grid rows).
func (r Result) StepsCount() int {
	if r.Table != nil {
		return len(r.Table)
	}
	if len(r.Chart) > 0 {
		return len(r.Chart[0].Y)
	}
	return 0
}

// NewResult packages a finished state grid into the requested shapes.
//
// The grid is indexed [step][stateIndex] and is read-only here: every packaged
// value is a copy. With clipNegatives set, negative cells are replaced by zero
// on output.
func NewResult(startPoint int, grid [][]float64, states []State, wantTable, wantChart, clipNegatives bool) Result {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name
	}
	res := Result{
		StartPoint: startPoint,
		StateNames: names,
	}
	if wantTable {
		res.Table = make([][]float64, len(grid))
		for step, row := range grid {
			out := make([]float64, len(row))
			for i, v := range row {
				out[i] = clip(v, clipNegatives)
			}
			res.Table[step] = out
		}
	}
	if wantChart {
		res.Chart = make([]Series, len(states))
		for i, name := range names {
			x := make([]int, len(grid))
			y := make([]float64, len(grid))
			for step, row := range grid {
				x[step] = startPoint + step
				y[step] = clip(row[i], clipNegatives)
			}
			res.Chart[i] = Series{Name: name, X: x, Y: y}
		}
	}
	return res
}

func clip(v float64, clipNegatives bool) float64 {
	if clipNegatives && v < 0 {
		return 0
	}
	return v
}

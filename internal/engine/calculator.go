package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/roach88/popsim/internal/model"
	"github.com/roach88/popsim/internal/numeric"
)

// Calculator runs one simulation task to completion.
//
// A Calculator is single-use: construct it with New, run it once with
// CalculateSync or CalculateAsync. The task is consumed read-only; the state
// grid is created at construction and handed to the result packager at the
// end of the run.
type Calculator struct {
	task      model.Task
	grid      *grid
	indexByID map[int]int
	scale     int32
	workers   int

	wantTable bool
	wantChart bool

	resultFn   func(model.Result)
	progressFn func(float64)

	// lastProgress is only touched by the driver; progress callbacks run
	// inline on the driver goroutine.
	lastProgress float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithResult registers a callback invoked with the completed result.
func WithResult(fn func(model.Result)) Option {
	return func(c *Calculator) {
		c.resultFn = fn
	}
}

// WithProgress registers a callback receiving progress values in [0, 1].
//
// The first reported value is 0 and, for a task of two or more steps, the
// last is 1; a task of zero or one step reports a single 0. Intermediate
// values are emitted only when they advance the previous report by more
// than 0.005.
func WithProgress(fn func(float64)) Option {
	return func(c *Calculator) {
		c.progressFn = fn
	}
}

// WithTableData controls whether the result carries the tabular shape.
// Default: true.
func WithTableData(want bool) Option {
	return func(c *Calculator) {
		c.wantTable = want
	}
}

// WithChartData controls whether the result carries per-state chart series.
// Default: true.
func WithChartData(want bool) Option {
	return func(c *Calculator) {
		c.wantChart = want
	}
}

// WithWorkers sets the worker pool size used when the task runs in parallel.
// Default: runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithScale overrides the fractional decimal scale of the high-precision
// pipeline. Default: numeric.DefaultScale.
func WithScale(scale int32) Option {
	return func(c *Calculator) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// New validates the task and constructs a calculator for it.
//
// Returns a *model.ValidationError (wrapped) when the task references unknown
// state ids, carries negative counts, coefficients, delays or steps.
func New(task model.Task, opts ...Option) (*Calculator, error) {
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("new calculator: %w", err)
	}
	c := &Calculator{
		task:      task,
		scale:     numeric.DefaultScale,
		workers:   runtime.GOMAXPROCS(0),
		wantTable: true,
		wantChart: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.indexByID = make(map[int]int, len(task.States))
	for i, s := range task.States {
		if _, dup := c.indexByID[s.ID]; !dup {
			c.indexByID[s.ID] = i
		}
	}
	c.grid = newGrid(task)
	return c, nil
}

// stateIndex resolves a state id to its grid column. The external sentinel
// resolves to itself and is never materialized in the grid.
func (c *Calculator) stateIndex(id int) int {
	if id == model.ExternalState {
		return model.ExternalState
	}
	return c.indexByID[id]
}

// CalculateSync runs the task on the calling goroutine and returns the
// packaged result. The result callback, when registered, is invoked before
// returning.
func (c *Calculator) CalculateSync(ctx context.Context) (model.Result, error) {
	var res model.Result
	var err error
	if c.task.HigherAccuracy {
		res, err = c.runHigher(ctx)
	} else {
		res, err = c.runNormal(ctx)
	}
	if err != nil {
		return model.Result{}, err
	}
	if c.resultFn != nil {
		c.resultFn(res)
	}
	return res, nil
}

// CalculateAsync runs the task on a background goroutine. The completed
// result is delivered through the result callback; a failed run terminates
// without invoking it.
func (c *Calculator) CalculateAsync(ctx context.Context) {
	go func() {
		if _, err := c.CalculateSync(ctx); err != nil {
			slog.Error("calculation failed", "task", c.task.Name, "error", err)
		}
	}()
}

// runNormal is the finite-precision step driver.
func (c *Calculator) runNormal(ctx context.Context) (model.Result, error) {
	slog.Debug("run starting",
		"task", c.task.Name,
		"steps", c.task.StepsCount,
		"states", len(c.task.States),
		"transitions", len(c.task.Transitions),
		"parallel", c.task.Parallel,
		"higher_accuracy", false,
	)
	c.reportProgress(0)
	pool := c.startPool()
	if pool != nil {
		defer pool.close()
	}
	for step := 1; step < c.task.StepsCount; step++ {
		c.grid.copyPrevious(step)
		totalCount := c.grid.total(step)
		if pool != nil {
			err := c.runBatch(ctx, pool, step, func(i int) error {
				c.applyTransition(step, totalCount, c.task.Transitions[i])
				return nil
			})
			if err != nil {
				return model.Result{}, err
			}
		} else {
			for _, tr := range c.task.Transitions {
				c.applyTransition(step, totalCount, tr)
			}
		}
		c.reportProgress(step)
	}
	slog.Debug("run finished", "task", c.task.Name)
	return c.packageResult(), nil
}

// runHigher is the arbitrary-precision step driver. The history window is
// released before returning, whatever the outcome.
func (c *Calculator) runHigher(ctx context.Context) (model.Result, error) {
	slog.Debug("run starting",
		"task", c.task.Name,
		"steps", c.task.StepsCount,
		"states", len(c.task.States),
		"transitions", len(c.task.Transitions),
		"parallel", c.task.Parallel,
		"higher_accuracy", true,
	)
	defer c.grid.releaseWindow()
	c.reportProgress(0)
	pool := c.startPool()
	if pool != nil {
		defer pool.close()
	}
	for step := 1; step < c.task.StepsCount; step++ {
		c.grid.copyPreviousBig(step, step)
		totalCount := c.grid.totalBig(step, step)
		if pool != nil {
			err := c.runBatch(ctx, pool, step, func(i int) error {
				return c.applyTransitionBig(step, totalCount, c.task.Transitions[i])
			})
			if err != nil {
				return model.Result{}, err
			}
		} else {
			for i, tr := range c.task.Transitions {
				if err := c.applyTransitionBig(step, totalCount, tr); err != nil {
					return model.Result{}, &WorkerError{Step: step, Transition: i, Err: err}
				}
			}
		}
		c.reportProgress(step)
	}
	slog.Debug("run finished", "task", c.task.Name)
	return c.packageResult(), nil
}

// startPool creates the worker pool when the task asks for parallel
// evaluation and there is anything to parallelize.
func (c *Calculator) startPool() *workerPool {
	if !c.task.Parallel || len(c.task.Transitions) == 0 {
		return nil
	}
	return newWorkerPool(c.workers)
}

// runBatch evaluates every transition of one step on the pool and waits for
// the batch to drain before returning.
//
// A transition task observing a cancelled context contributes nothing and is
// absorbed silently; the step completes with the effects of the remaining
// tasks. A panicking or failing task aborts the run with a WorkerError once
// the batch has drained.
func (c *Calculator) runBatch(ctx context.Context, pool *workerPool, step int, eval func(int) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for i := range c.task.Transitions {
		wg.Add(1)
		pool.submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("transition panicked: %v", r)
					}
				}()
				return eval(i)
			}()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = &WorkerError{Step: step, Transition: i, Err: err}
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return firstErr
}

// reportProgress emits the progress value for a finished step.
//
// Step 0 (or a zero-step task) reports 0, the final step reports 1, anything
// in between reports step/(stepsCount-1) only when it advances the last
// report by more than 0.005.
func (c *Calculator) reportProgress(step int) {
	if c.progressFn == nil {
		return
	}
	stepsCount := c.task.StepsCount
	var progress float64
	var needUpdate bool
	switch {
	case step == 0 || stepsCount == 0:
		progress, needUpdate = 0, true
	case step == stepsCount-1 || stepsCount == 1:
		progress, needUpdate = 1, true
	default:
		progress = float64(step) / float64(stepsCount-1)
		needUpdate = progress-c.lastProgress > 0.005
	}
	if needUpdate {
		c.lastProgress = progress
		c.progressFn(progress)
	}
}

func (c *Calculator) packageResult() model.Result {
	return model.NewResult(
		c.task.StartPoint,
		c.grid.states,
		c.task.States,
		c.wantTable,
		c.wantChart,
		!c.task.AllowNegative,
	)
}

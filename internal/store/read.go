package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/popsim/internal/model"
)

// ErrRunNotFound is returned when a run id has no archived record.
var ErrRunNotFound = errors.New("store: run not found")

// RunRecord is the archive metadata of one run.
type RunRecord struct {
	ID          string
	Name        string
	StartPoint  int
	StepsCount  int
	StatesCount int
	CreatedAt   string
}

// ReadRun returns a run's metadata and its per-state series.
// Series and their points come back in deterministic order: by state name,
// then step.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, []model.Series, error) {
	var rec RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_point, steps_count, states_count, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Name, &rec.StartPoint, &rec.StepsCount, &rec.StatesCount, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("read run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT state, step, x, value
		FROM run_series
		WHERE run_id = ?
		ORDER BY state ASC, step ASC
	`, id)
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("read run %s: query series: %w", id, err)
	}
	defer rows.Close()

	var series []model.Series
	for rows.Next() {
		var state string
		var step, x int
		var value float64
		if err := rows.Scan(&state, &step, &x, &value); err != nil {
			return RunRecord{}, nil, fmt.Errorf("read run %s: scan series: %w", id, err)
		}
		if len(series) == 0 || series[len(series)-1].Name != state {
			series = append(series, model.Series{Name: state})
		}
		last := &series[len(series)-1]
		last.X = append(last.X, x)
		last.Y = append(last.Y, value)
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, nil, fmt.Errorf("read run %s: iterate series: %w", id, err)
	}

	return rec, series, nil
}

// ListRuns returns the archive metadata of every run, oldest first.
// UUIDv7 ids sort by creation time, so ordering by id is chronological.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_point, steps_count, states_count, created_at
		FROM runs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.StartPoint, &rec.StepsCount, &rec.StatesCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}

	return runs, nil
}

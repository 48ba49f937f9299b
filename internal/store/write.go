package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/popsim/internal/model"
)

// WriteRun archives a finished result under a fresh UUIDv7 run id.
//
// The result must carry chart series (the long-format rows are derived from
// them). The run row and all series rows are written in one transaction, so
// a crashed write never leaves a partial run behind.
func (s *Store) WriteRun(ctx context.Context, name string, result model.Result) (string, error) {
	if len(result.Chart) == 0 {
		return "", fmt.Errorf("write run: result carries no chart series")
	}

	runID := uuid.Must(uuid.NewV7()).String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, start_point, steps_count, states_count)
		VALUES (?, ?, ?, ?, ?)
	`,
		runID,
		name,
		result.StartPoint,
		result.StepsCount(),
		len(result.Chart),
	)
	if err != nil {
		return "", fmt.Errorf("write run %s: %w", runID, err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO run_series (run_id, state, step, x, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return "", fmt.Errorf("write run %s: prepare series: %w", runID, err)
	}
	defer insert.Close()

	for _, series := range result.Chart {
		for step, y := range series.Y {
			if _, err := insert.ExecContext(ctx, runID, series.Name, step, series.X[step], y); err != nil {
				return "", fmt.Errorf("write run %s: series %q step %d: %w", runID, series.Name, step, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run %s: commit: %w", runID, err)
	}

	return runID, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orderflow/orderflow/internal/model"
)

// RecordImportRun persists a finished session's summary. The session's
// records themselves are deliberately not written back anywhere.
func (s *Store) RecordImportRun(ctx context.Context, run model.ImportRun) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, source, total, processed, errored, total_price, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.Source, run.Total, run.Processed, run.Errored, run.Sum,
		run.StartedAt, run.FinishedAt); err != nil {
		return "", fmt.Errorf("failed to record import run: %w", err)
	}

	return id, nil
}

// ImportRuns returns the most recent import run summaries, newest first.
func (s *Store) ImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, total, processed, errored, total_price, started_at, finished_at
		 FROM import_runs
		 ORDER BY started_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ImportRun
	for rows.Next() {
		var run model.ImportRun
		if err := rows.Scan(&run.ID, &run.Source, &run.Total, &run.Processed,
			&run.Errored, &run.Sum, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import runs: %w", err)
	}

	return runs, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aimemo/internal/perception"
)

// StoreTrace implements perception.TraceStore.
func (s *LocalStore) StoreTrace(ctx context.Context, trace *perception.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := trace.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO traces (run_id, purpose, model, prompt, response, success, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trace.RunID, trace.Purpose, trace.Model, trace.Prompt, trace.Response,
		trace.Success, trace.Error, trace.DurationMs, ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to store trace: %w", err)
	}
	return nil
}

// RunTraces returns the traces of one run in call order.
func (s *LocalStore) RunTraces(ctx context.Context, runID string) ([]perception.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, purpose, model, prompt, response, success, error, duration_ms, created_at
		FROM traces WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query traces: %w", err)
	}
	defer rows.Close()

	var traces []perception.Trace
	for rows.Next() {
		var (
			t                           perception.Trace
			purpose, model, resp, errMs sql.NullString
			created                     string
		)
		if err := rows.Scan(&t.RunID, &purpose, &model, &t.Prompt, &resp, &t.Success, &errMs, &t.DurationMs, &created); err != nil {
			return nil, fmt.Errorf("failed to scan trace: %w", err)
		}
		t.Purpose, t.Model, t.Response, t.Error = purpose.String, model.String, resp.String, errMs.String
		t.Timestamp, _ = time.Parse(time.RFC3339Nano, created)
		traces = append(traces, t)
	}
	return traces, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run is one aimemo invocation.
type Run struct {
	ID               string
	Memo             string
	RawLabel         string // model output before the label policy
	Label            string
	SummaryOutcome   string
	DiagnosisOutcome string
	ExitCode         int
	Error            string
	CreatedAt        time.Time
}

// RecordRun inserts or replaces a run row.
func (s *LocalStore) RecordRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, memo, raw_label, label, summary_outcome, diagnosis_outcome, exit_code, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Memo, run.RawLabel, run.Label, run.SummaryOutcome, run.DiagnosisOutcome,
		run.ExitCode, run.Error, run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. A non-empty label filters by label.
func (s *LocalStore) RecentRuns(ctx context.Context, limit int, label string) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	const cols = `id, memo, raw_label, label, summary_outcome, diagnosis_outcome, exit_code, error, created_at`
	if label != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM runs WHERE label = ? ORDER BY created_at DESC LIMIT ?`, label, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                       Run
			raw, lbl, sum, diag, ms sql.NullString
			created                 string
		)
		if err := rows.Scan(&r.ID, &r.Memo, &raw, &lbl, &sum, &diag, &r.ExitCode, &ms, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.RawLabel, r.Label, r.SummaryOutcome, r.DiagnosisOutcome, r.Error = raw.String, lbl.String, sum.String, diag.String, ms.String
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LabelCounts returns how many runs were filed under each label.
func (s *LocalStore) LabelCounts(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, COUNT(*) FROM runs WHERE label IS NOT NULL AND label != '' GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to count labels: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

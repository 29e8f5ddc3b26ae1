package store

import (
	"context"
	"fmt"
	"sync"

	"aimemo/internal/perception"
)

// Deferred holds traces in memory and opens the history database only when a
// run is recorded, so a run that never records leaves nothing on disk.
type Deferred struct {
	path string

	mu     sync.Mutex
	traces []perception.Trace
	store  *LocalStore
}

// NewDeferred returns a Deferred for the database at path. Nothing is opened yet.
func NewDeferred(path string) *Deferred {
	return &Deferred{path: path}
}

// StoreTrace implements perception.TraceStore.
func (d *Deferred) StoreTrace(ctx context.Context, trace *perception.Trace) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.store != nil {
		return d.store.StoreTrace(ctx, trace)
	}
	d.traces = append(d.traces, *trace)
	return nil
}

// RecordRun opens the database on first use, flushes buffered traces and records run.
func (d *Deferred) RecordRun(ctx context.Context, run *Run) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.store == nil {
		st, err := NewLocalStore(d.path)
		if err != nil {
			return err
		}
		d.store = st
		for i := range d.traces {
			if err := st.StoreTrace(ctx, &d.traces[i]); err != nil {
				return fmt.Errorf("failed to flush traces: %w", err)
			}
		}
		d.traces = nil
	}
	return d.store.RecordRun(ctx, run)
}

// Pending returns how many traces are waiting for the database.
func (d *Deferred) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.traces)
}

// Close closes the database if it was opened.
func (d *Deferred) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return nil
	}
	err := d.store.Close()
	d.store = nil
	return err
}

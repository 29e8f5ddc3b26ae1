package perception

import (
	"context"
	"strings"
	"time"

	"aimemo/internal/logging"
)

// Trace captures one model interaction for the run history.
type Trace struct {
	RunID      string
	Purpose    string // classify, merge:Summary, merge:Diagnosis
	Model      string
	Prompt     string
	Response   string // first candidate, untrimmed
	Success    bool
	Error      string
	DurationMs int64
	Timestamp  time.Time
}

// TraceStore persists traces.
type TraceStore interface {
	StoreTrace(ctx context.Context, trace *Trace) error
}

// TracingClient wraps any Generator and records every call.
// The run ID is fixed at construction, so the wrapper never changes after it is built.
type TracingClient struct {
	underlying Generator
	store      TraceStore
	runID      string
}

// NewTracingClient creates a tracing wrapper around an existing Generator.
// store may be nil, in which case calls are only logged.
func NewTracingClient(underlying Generator, store TraceStore, runID string) *TracingClient {
	return &TracingClient{
		underlying: underlying,
		store:      store,
		runID:      runID,
	}
}

// Generate implements Generator with tracing.
func (tc *TracingClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	purpose := PurposeFrom(ctx)
	start := time.Now()
	logging.API("LLM call started: run=%s purpose=%s prompt_len=%d", tc.runID, purpose, len(prompt))
	logging.APIDebug("Prompt (%s):\n%s", purpose, prompt)

	resp, err := tc.underlying.Generate(ctx, prompt)

	duration := time.Since(start)
	trace := &Trace{
		RunID:      tc.runID,
		Purpose:    purpose,
		Prompt:     prompt,
		DurationMs: duration.Milliseconds(),
		Timestamp:  start,
	}

	if err != nil {
		logging.Get(logging.CategoryAPI).Error("LLM call failed: run=%s purpose=%s duration=%v error=%v", tc.runID, purpose, duration, err)
		trace.Error = err.Error()
	} else {
		trace.Model = resp.Model
		if len(resp.Candidates) > 0 {
			trace.Response = resp.Candidates[0]
		}
		if _, ferr := FirstText(resp); ferr != nil {
			trace.Error = ferr.Error()
		} else {
			trace.Success = true
		}
		logging.API("LLM call completed: run=%s purpose=%s duration=%v candidates=%d block_reason=%s",
			tc.runID, purpose, duration, len(resp.Candidates), resp.BlockReason)
		logging.APIDebug("API Response (%s): %s", purpose, strings.Join(resp.Candidates, "\n---\n"))
	}

	// Stored synchronously: the process exits right after the run.
	if tc.store != nil {
		if storeErr := tc.store.StoreTrace(ctx, trace); storeErr != nil {
			logging.Get(logging.CategoryStore).Warn("Failed to store trace: %v", storeErr)
		}
	}

	return resp, err
}

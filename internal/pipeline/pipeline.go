// Package pipeline runs one memo through classification and both note branches.
package pipeline

import (
	"context"
	"fmt"

	"aimemo/internal/classifier"
	"aimemo/internal/logging"
	"aimemo/internal/store"
	"aimemo/internal/taxonomy"
	"aimemo/internal/vault"
)

// Classifier returns the raw category label for a memo.
type Classifier interface {
	Classify(ctx context.Context, memo string) (string, error)
}

// Merger returns the full rewritten text of the note at path.
type Merger interface {
	Merge(ctx context.Context, path, memo string, kind vault.NoteKind) (string, error)
}

// Initializer makes sure a note exists, creating it on consent.
type Initializer interface {
	EnsureExists(path, display string) (vault.State, error)
}

// Reporter shows outcomes to the operator.
type Reporter interface {
	Classified(label string)
	ClassificationFailed(err error)
	Created(display string)
	Skipped(fileName string)
	Updated(path string)
	Unchanged(path string, err error)
}

// Previewer renders an updated note.
type Previewer interface {
	Show(title, markdown string) error
}

// RunRecorder persists the run summary.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *store.Run) error
}

// Outcome is what happened to one note.
type Outcome string

const (
	OutcomeNotRun    Outcome = "not_run"   // classification failed
	OutcomeCreated   Outcome = "created"   // empty note created, no merge this run
	OutcomeSkipped   Outcome = "skipped"   // operator declined creation
	OutcomeUpdated   Outcome = "updated"   // merged text written
	OutcomeUnchanged Outcome = "unchanged" // read, merge or write failed
)

// Branch is the result for one note kind.
type Branch struct {
	Kind    vault.NoteKind
	Path    string
	Outcome Outcome
	Err     error
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Memo     string
	RawLabel string
	Label    string
	Branches []Branch

	// Err is the first failure in run order, nil on success.
	Err error
}

// ExitCode returns the process exit code for the report.
func (r *Report) ExitCode() int {
	return ExitCode(r.Err)
}

// Branch returns the result for kind.
func (r *Report) Branch(kind vault.NoteKind) (Branch, bool) {
	for _, b := range r.Branches {
		if b.Kind == kind {
			return b, true
		}
	}
	return Branch{}, false
}

func (r *Report) fail(err error) {
	if r.Err == nil {
		r.Err = err
	}
}

// Config wires a Pipeline.
type Config struct {
	Root        string
	LabelPolicy string
	RunID       string

	Classifier  Classifier
	Initializer Initializer
	Merger      Merger
	Reporter    Reporter

	// Optional.
	Previewer Previewer
	Recorder  RunRecorder
}

// Pipeline is the per-invocation driver.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.LabelPolicy == "" {
		cfg.LabelPolicy = taxonomy.PolicyLiteral
	}
	return &Pipeline{cfg: cfg}
}

// Run classifies memo once, then handles Summary and Diagnosis independently.
// A failure in one branch never stops the other.
func (p *Pipeline) Run(ctx context.Context, memo string) *Report {
	timer := logging.StartTimer(logging.CategoryClassify, "pipeline run")
	defer timer.Stop()

	report := &Report{RunID: p.cfg.RunID, Memo: memo}
	defer p.record(ctx, report)

	raw, err := p.cfg.Classifier.Classify(ctx, memo)
	if err != nil {
		p.classificationFailed(report, err)
		return report
	}
	report.RawLabel = raw

	label, err := taxonomy.Resolve(raw, p.cfg.LabelPolicy)
	if err != nil {
		p.classificationFailed(report, fmt.Errorf("%w: %w", classifier.ErrClassification, err))
		return report
	}
	report.Label = label
	if label != raw {
		logging.Classify("Label %q resolved to %q (policy %s)", raw, label, p.cfg.LabelPolicy)
	}
	p.cfg.Reporter.Classified(label)

	paths := vault.Locate(p.cfg.Root, label)
	for _, kind := range vault.Kinds {
		b := p.runBranch(ctx, memo, label, kind, paths.For(kind))
		if b.Err != nil {
			report.fail(b.Err)
		}
		report.Branches = append(report.Branches, b)
	}

	logging.Boot("Run %s finished: label=%s exit=%d", report.RunID, report.Label, report.ExitCode())
	return report
}

func (p *Pipeline) classificationFailed(report *Report, err error) {
	logging.Get(logging.CategoryClassify).Error("Classification failed: %v", err)
	report.fail(err)
	for _, kind := range vault.Kinds {
		report.Branches = append(report.Branches, Branch{Kind: kind, Outcome: OutcomeNotRun})
	}
	p.cfg.Reporter.ClassificationFailed(err)
}

func (p *Pipeline) runBranch(ctx context.Context, memo, label string, kind vault.NoteKind, path string) Branch {
	b := Branch{Kind: kind, Path: path}
	display := vault.DisplayName(label, kind)

	state, err := p.cfg.Initializer.EnsureExists(path, display)
	if err != nil {
		b.Outcome, b.Err = OutcomeUnchanged, err
		p.cfg.Reporter.Unchanged(path, err)
		return b
	}
	switch state {
	case vault.Created:
		b.Outcome = OutcomeCreated
		p.cfg.Reporter.Created(display)
		return b
	case vault.Skipped:
		b.Outcome = OutcomeSkipped
		p.cfg.Reporter.Skipped(kind.FileName())
		return b
	}

	text, err := p.cfg.Merger.Merge(ctx, path, memo, kind)
	if err != nil {
		b.Outcome, b.Err = OutcomeUnchanged, err
		p.cfg.Reporter.Unchanged(path, err)
		return b
	}
	logging.MergeDebug("Updated content generated for %s:\n%s", path, text)

	if err := vault.Write(path, text); err != nil {
		b.Outcome, b.Err = OutcomeUnchanged, err
		p.cfg.Reporter.Unchanged(path, err)
		return b
	}
	b.Outcome = OutcomeUpdated
	p.cfg.Reporter.Updated(path)

	if p.cfg.Previewer != nil {
		if err := p.cfg.Previewer.Show(display, text); err != nil {
			logging.Get(logging.CategoryVault).Warn("Preview failed for %s: %v", display, err)
		}
	}
	return b
}

// record stores the run. Failures are logged and never affect the exit code.
// A run that was never classified touches nothing in the vault, history included.
func (p *Pipeline) record(ctx context.Context, report *Report) {
	if p.cfg.Recorder == nil || report.RunID == "" || report.Label == "" {
		return
	}
	run := &store.Run{
		ID:       report.RunID,
		Memo:     report.Memo,
		RawLabel: report.RawLabel,
		Label:    report.Label,
		ExitCode: report.ExitCode(),
	}
	if b, ok := report.Branch(vault.Summary); ok {
		run.SummaryOutcome = string(b.Outcome)
	}
	if b, ok := report.Branch(vault.Diagnosis); ok {
		run.DiagnosisOutcome = string(b.Outcome)
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	// Recorded even after cancellation so interrupted runs still show up.
	if err := p.cfg.Recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		logging.Get(logging.CategoryStore).Warn("Failed to record run %s: %v", report.RunID, err)
	}
}

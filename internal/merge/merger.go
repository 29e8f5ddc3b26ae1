// Package merge rewrites a note with a new memo bullet using the model.
package merge

import (
	"context"
	"errors"
	"fmt"

	"aimemo/internal/logging"
	"aimemo/internal/perception"
	"aimemo/internal/prompt"
	"aimemo/internal/vault"
)

var (
	// ErrRead marks a note that exists but could not be read.
	ErrRead = vault.ErrRead

	// ErrMerge marks a model call that produced no usable note text.
	ErrMerge = errors.New("could not generate updated content")
)

// Merger produces the full updated text of a note.
type Merger struct {
	client perception.Generator
}

// New creates a Merger.
func New(client perception.Generator) *Merger {
	return &Merger{client: client}
}

// Merge reads path and asks the model to return the whole note with memo appended
// as a bullet under kind's section. The model's text is returned trimmed and
// otherwise unchecked. The note on disk is not touched.
func (m *Merger) Merge(ctx context.Context, path, memo string, kind vault.NoteKind) (string, error) {
	logging.MergeDebug("Merge: path=%s kind=%s memo=%q", path, kind, memo)

	existing, err := vault.Read(path)
	if err != nil {
		logging.Get(logging.CategoryMerge).Error("Error reading %s: %v", path, err)
		return "", fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	p, err := prompt.Merge(prompt.MergeData{
		Section:  kind.Section(),
		Existing: existing,
		Memo:     memo,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMerge, err)
	}

	resp, err := m.client.Generate(perception.WithPurpose(ctx, "merge:"+string(kind)), p)
	if err != nil {
		logging.Get(logging.CategoryMerge).Error("Error generating updated content for %s: %v", path, err)
		return "", fmt.Errorf("%w for %s: %w", ErrMerge, path, err)
	}

	text, err := perception.FirstText(resp)
	if err != nil {
		logging.Get(logging.CategoryMerge).Warn("No updated content for %s: %v", path, err)
		return "", fmt.Errorf("%w for %s: %w", ErrMerge, path, err)
	}

	logging.Merge("Generated updated content for %s (%d -> %d bytes)", path, len(existing), len(text))
	return text, nil
}

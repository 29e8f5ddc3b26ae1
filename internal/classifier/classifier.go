// Package classifier asks the model which vulnerability category a memo belongs to.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"aimemo/internal/logging"
	"aimemo/internal/perception"
	"aimemo/internal/prompt"
	"aimemo/internal/taxonomy"
)

// ErrClassification wraps every way classification can fail.
var ErrClassification = errors.New("could not classify vulnerability")

// Classifier turns a memo into a category label with one model call.
type Classifier struct {
	client     perception.Generator
	categories []string
}

// New creates a Classifier over the fixed taxonomy.
func New(client perception.Generator) *Classifier {
	return &Classifier{client: client, categories: taxonomy.Categories}
}

// Classify returns the trimmed text of the model's first candidate.
// The label is not checked against the category list.
func (c *Classifier) Classify(ctx context.Context, memo string) (string, error) {
	p, err := prompt.Classify(prompt.ClassifyData{Memo: memo, Categories: c.categories})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassification, err)
	}

	resp, err := c.client.Generate(perception.WithPurpose(ctx, "classify"), p)
	if err != nil {
		logging.Get(logging.CategoryClassify).Error("Error during classification: %v", err)
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}

	label, err := perception.FirstText(resp)
	if err != nil {
		logging.Get(logging.CategoryClassify).Warn("Classification returned no label: %v", err)
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}

	known := taxonomy.Known(label)
	logging.Classify("Classified as %q (known=%v)", label, known)
	return label, nil
}

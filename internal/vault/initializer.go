package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"aimemo/internal/config"
	"aimemo/internal/logging"
)

// State is the outcome of EnsureExists.
type State int

const (
	Exists  State = iota // note already on disk; caller merges
	Created              // empty note created; caller does not merge this run
	Skipped              // operator declined; nothing on disk
)

func (s State) String() string {
	switch s {
	case Exists:
		return "exists"
	case Created:
		return "created"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Initializer creates missing notes according to the configured mode.
type Initializer struct {
	mode    string
	confirm Confirmer
}

// NewInitializer returns an Initializer. confirm is only used in "ask" mode.
func NewInitializer(mode string, confirm Confirmer) *Initializer {
	if mode == "" {
		mode = config.CreateAsk
	}
	return &Initializer{mode: mode, confirm: confirm}
}

// EnsureExists checks path and, when missing, creates an empty note if the
// operator (or the configured mode) agrees. display names the note in the question.
func (in *Initializer) EnsureExists(path, display string) (State, error) {
	_, err := os.Stat(path)
	if err == nil {
		return Exists, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Skipped, fmt.Errorf("%w: stat %s: %w", ErrRead, path, err)
	}

	create, err := in.shouldCreate(display)
	if err != nil {
		return Skipped, err
	}
	if !create {
		logging.Vault("Skipping missing note %s", display)
		return Skipped, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Skipped, fmt.Errorf("%w: create directory for %s: %w", ErrWrite, display, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return Skipped, fmt.Errorf("%w: create %s: %w", ErrWrite, display, err)
	}
	if err := f.Close(); err != nil {
		return Skipped, fmt.Errorf("%w: create %s: %w", ErrWrite, display, err)
	}

	logging.Vault("Created empty note %s", path)
	return Created, nil
}

func (in *Initializer) shouldCreate(display string) (bool, error) {
	switch in.mode {
	case config.CreateAlways:
		return true, nil
	case config.CreateNever:
		return false, nil
	}
	if in.confirm == nil {
		return false, nil
	}
	ok, err := in.confirm.Confirm(fmt.Sprintf("'%s' not found. Create it? (y/n): ", display))
	if err != nil {
		// No answer (closed stdin) counts as no.
		logging.Get(logging.CategoryVault).Warn("No answer for %s: %v", display, err)
		return false, nil
	}
	return ok, nil
}

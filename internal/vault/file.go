package vault

import (
	"errors"
	"fmt"
	"os"

	"aimemo/internal/logging"
)

var (
	// ErrRead marks a note that exists but could not be inspected or read.
	ErrRead = errors.New("read failed")

	// ErrWrite marks a failure to create or persist a note.
	ErrWrite = errors.New("write failed")
)

// Read returns the full text of a note.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write truncates path and writes text in full.
func Write(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	logging.Vault("Updated %s (%d bytes)", path, len(text))
	return nil
}

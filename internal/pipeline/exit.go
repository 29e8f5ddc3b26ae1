package pipeline

import (
	"errors"

	"aimemo/internal/classifier"
	"aimemo/internal/merge"
	"aimemo/internal/vault"
)

// Process exit codes. A run that only creates or skips notes is a success.
const (
	ExitOK             = 0
	ExitUsage          = 1
	ExitClassification = 2
	ExitRead           = 3
	ExitMerge          = 4
	ExitWrite          = 5
)

// ExitCode maps a run error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, classifier.ErrClassification):
		return ExitClassification
	case errors.Is(err, merge.ErrRead):
		return ExitRead
	case errors.Is(err, merge.ErrMerge):
		return ExitMerge
	case errors.Is(err, vault.ErrWrite):
		return ExitWrite
	default:
		return ExitUsage
	}
}

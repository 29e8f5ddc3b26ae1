// Package vault locates, creates, reads and writes the per-category Markdown notes.
//
// Layout:
//
//	<root>/<label>/Summary.md    section "## Memo"
//	<root>/<label>/Diagnosis.md  section "## How to diagnose"
package vault

import (
	"path/filepath"
)

// NoteKind identifies one of the two notes kept per category.
type NoteKind string

const (
	Summary   NoteKind = "Summary"
	Diagnosis NoteKind = "Diagnosis"
)

// Kinds lists note kinds in processing order.
var Kinds = []NoteKind{Summary, Diagnosis}

// FileName returns the note's file name inside the category directory.
func (k NoteKind) FileName() string {
	return string(k) + ".md"
}

// Section returns the Markdown heading the memo bullet is appended under.
func (k NoteKind) Section() string {
	switch k {
	case Diagnosis:
		return "## How to diagnose"
	default:
		return "## Memo"
	}
}

// Paths holds both note paths for one category.
type Paths struct {
	Summary   string
	Diagnosis string
}

// For returns the path of the given kind.
func (p Paths) For(kind NoteKind) string {
	if kind == Diagnosis {
		return p.Diagnosis
	}
	return p.Summary
}

// Locate joins root, label and the note file names. The label is used as-is.
func Locate(root, label string) Paths {
	dir := filepath.Join(root, label)
	return Paths{
		Summary:   filepath.Join(dir, Summary.FileName()),
		Diagnosis: filepath.Join(dir, Diagnosis.FileName()),
	}
}

// DisplayName is the vault-relative name shown to the operator, e.g. "XXE/Summary.md".
func DisplayName(label string, kind NoteKind) string {
	return label + "/" + kind.FileName()
}

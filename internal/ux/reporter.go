// Package ux prints run outcomes and asks the operator yes/no questions.
package ux

import (
	"errors"
	"fmt"
	"io"

	"aimemo/internal/perception"

	"github.com/fatih/color"
)

// Reporter writes operator-facing outcome lines.
type Reporter struct {
	out io.Writer

	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	label *color.Color
}

// NewReporter creates a Reporter. With useColor false every line is plain text.
func NewReporter(out io.Writer, useColor bool) *Reporter {
	r := &Reporter{
		out:   out,
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
		label: color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{r.ok, r.warn, r.fail, r.label} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Classified reports the label the memo was filed under.
func (r *Reporter) Classified(label string) {
	fmt.Fprintf(r.out, "Classified as: %s\n", r.label.Sprint(label))
}

// ClassificationFailed reports a failed classification. A safety block gets an
// extra explanation line.
func (r *Reporter) ClassificationFailed(err error) {
	var blocked *perception.BlockedError
	if errors.As(err, &blocked) {
		fmt.Fprintf(r.out, "%s %s\n", r.fail.Sprint("Error:"), fmt.Sprintf("Prompt blocked due to: %s", blocked.Reason))
		if blocked.IsSafety() {
			fmt.Fprintln(r.out, "The prompt was blocked because it potentially violates the safety policy.")
		}
	} else if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", r.fail.Sprint("Error during classification:"), err)
	}
	fmt.Fprintln(r.out, r.warn.Sprint("Could not classify vulnerability. Please classify manually."))
}

// Created reports that an empty note was created.
func (r *Reporter) Created(display string) {
	fmt.Fprintf(r.out, "%s %s\n", r.ok.Sprint("Created"), display)
}

// Skipped reports a declined creation.
func (r *Reporter) Skipped(fileName string) {
	fmt.Fprintln(r.out, r.warn.Sprintf("Skipping %s", fileName))
}

// Updated reports a successful rewrite.
func (r *Reporter) Updated(path string) {
	fmt.Fprintf(r.out, "%s %s\n", r.ok.Sprint("Updated"), path)
}

// Unchanged reports a branch that left the note as it was.
func (r *Reporter) Unchanged(path string, err error) {
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", r.fail.Sprint("Error:"), err)
	}
	fmt.Fprintln(r.out, r.warn.Sprintf("Could not update %s. Please check manually.", path))
}

// Error reports a failure that is not tied to a note.
func (r *Reporter) Error(err error) {
	fmt.Fprintf(r.out, "%s %v\n", r.fail.Sprint("Error:"), err)
}

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6B7280")
	present = lipgloss.NewStyle().Foreground(accent)
	absent  = lipgloss.NewStyle().Foreground(muted)
	header  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// CategoryRow is one line of the categories listing.
type CategoryRow struct {
	Name      string
	Summary   bool
	Diagnosis bool
	Runs      int
}

// RenderCategories lays the rows out as aligned columns.
func RenderCategories(rows []CategoryRow) string {
	width := len("Category")
	for _, r := range rows {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}
	nameCol := lipgloss.NewStyle().Width(width + 2)
	flagCol := lipgloss.NewStyle().Width(11)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		nameCol.Render(header.Render("Category")),
		flagCol.Render(header.Render("Summary")),
		flagCol.Render(header.Render("Diagnosis")),
		header.Render("Runs"),
	))
	b.WriteString("\n")

	for _, r := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			nameCol.Render(r.Name),
			flagCol.Render(mark(r.Summary)),
			flagCol.Render(mark(r.Diagnosis)),
			fmt.Sprintf("%d", r.Runs),
		))
		b.WriteString("\n")
	}
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return present.Render("yes")
	}
	return absent.Render("-")
}

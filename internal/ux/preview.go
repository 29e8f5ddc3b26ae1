package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Previewer renders Markdown notes to the terminal.
type Previewer struct {
	out      io.Writer
	renderer *glamour.TermRenderer
}

// NewPreviewer builds a glamour renderer. Without color the "notty" style is used.
func NewPreviewer(out io.Writer, useColor bool, width int) (*Previewer, error) {
	if width <= 0 {
		width = 80
	}
	style := glamour.WithStandardStyle("notty")
	if useColor {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Previewer{out: out, renderer: renderer}, nil
}

// Show renders markdown under a title line.
func (p *Previewer) Show(title, markdown string) error {
	rendered, err := p.renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", title, err)
	}
	fmt.Fprintf(p.out, "--- %s ---\n%s", title, rendered)
	return nil
}

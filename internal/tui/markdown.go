package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders AI replies as terminal markdown. Rendering falls back to
// the raw text on any failure, never to an error surface.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdown creates a renderer wrapping at width.
func NewMarkdown(width int, dark bool) *Markdown {
	style := glamour.WithStandardStyle("light")
	if dark {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		r = nil
	}
	return &Markdown{renderer: r, width: width}
}

// Render returns text formatted for the transcript.
func (m *Markdown) Render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

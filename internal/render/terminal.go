package render

import (
	"log/slog"

	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for a terminal. A nil renderer prints plain text.
type Terminal struct {
	renderer *glamour.TermRenderer
}

// NewTerminal builds a renderer wrapping at width columns. When styled is
// false, or glamour cannot be initialised, output is the markdown unchanged.
// The style follows the terminal background; opts are applied after it, so
// glamour.WithStandardStyle pins a fixed style.
func NewTerminal(width int, styled bool, opts ...glamour.TermRendererOption) *Terminal {
	if !styled {
		return &Terminal{}
	}
	options := append([]glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	}, opts...)
	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		slog.Warn("Markdown renderer unavailable, falling back to plain text", "error", err)
		return &Terminal{}
	}
	return &Terminal{renderer: r}
}

// Render returns the styled text, or content itself if rendering fails.
func (t *Terminal) Render(content string) string {
	if t.renderer == nil {
		return content
	}
	out, err := t.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

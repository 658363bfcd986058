package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer caches a glamour renderer and rebuilds it when the wrap width or style changes.
type markdownRenderer struct {
	style string

	width     int
	builtWith string
	renderer  *glamour.TermRenderer
}

// render converts markdown to terminal text. On renderer errors the raw markdown is returned.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(24, width)
	style := strings.TrimSpace(r.style)
	if style == "" {
		style = "dark"
	}

	if r.renderer == nil || r.width != wrapWidth || r.builtWith != style {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
		r.builtWith = style
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultWordWrap = 100

// Renderer turns Markdown AI output into terminal text.
type Renderer struct {
	styled   bool
	wordWrap int
}

// NewRenderer creates a renderer. When styled is false, Render returns its
// input unchanged, which is what pipes and log files want.
func NewRenderer(styled bool) *Renderer {
	return &Renderer{styled: styled, wordWrap: defaultWordWrap}
}

// WithWordWrap sets the wrap width for styled output.
func (r *Renderer) WithWordWrap(width int) *Renderer {
	if width > 0 {
		r.wordWrap = width
	}
	return r
}

// Render formats markdown for the terminal.
func (r *Renderer) Render(markdown string) (string, error) {
	if !r.styled {
		return markdown, nil
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.wordWrap),
		glamour.WithEmoji(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := tr.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// RenderOrPlain renders markdown, falling back to the raw text if glamour
// fails.
func (r *Renderer) RenderOrPlain(markdown string) string {
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

//nolint:gochecknoglobals // cached renderer, built on first use
var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// markdownWrap is the column at which rendered markdown is wrapped.
const markdownWrap = 80

func getMarkdownRenderer() *glamour.TermRenderer {
	markdownRendererOnce.Do(func() {
		style := glamour.WithAutoStyle()
		if !HasColorSupport() {
			style = glamour.WithStandardStyle("notty")
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWrap))
		if err == nil {
			markdownRenderer = r
		}
	})
	return markdownRenderer
}

// RenderMarkdown renders markdown text for the terminal. When the renderer
// is unavailable or fails, the text is returned unchanged.
func RenderMarkdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if r := getMarkdownRenderer(); r != nil {
		if rendered, err := r.Render(text); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return text
}

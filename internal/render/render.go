// Package render turns processed markdown into terminal output.
package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string { return ansi.Strip(s) }

// Styles lists the built-in glamour style names accepted by Markdown.
var Styles = []string{"auto", "dark", "light", "notty", "dracula", "pink"}

// ResolveStyle replaces "auto" with a concrete style. Detecting the
// background queries the terminal, so call it once, before anything else
// (a bubbletea program) starts reading stdin.
func ResolveStyle(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
	default:
		return style
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// NewRenderer builds a glamour renderer wrapping at width. style is one of
// Styles or a path to a JSON style file; anything else falls back to auto.
func NewRenderer(width int, style string) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}

	switch name := strings.ToLower(strings.TrimSpace(style)); name {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "dark", "light", "notty", "dracula", "pink":
		opts = append(opts, glamour.WithStylePath(name))
	default:
		if _, err := os.Stat(style); err == nil {
			opts = append(opts, glamour.WithStylesFromJSONFile(style))
		} else {
			opts = append(opts, glamour.WithAutoStyle())
		}
	}

	return glamour.NewTermRenderer(opts...)
}

// Markdown renders raw once with a fresh renderer.
func Markdown(raw string, width int, style string) (string, error) {
	r, err := NewRenderer(width, style)
	if err != nil {
		return "", err
	}
	return r.Render(raw)
}

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultWordWrap = 80

var footerStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)

// TerminalOptions controls glamour output.
type TerminalOptions struct {
	// Style is a glamour standard style name, or "auto" to follow the terminal.
	Style    string
	WordWrap int
	// Hint is appended to the diagram footer, e.g. how to open the preview.
	Hint string
}

// Terminal renders md for a terminal. Mermaid blocks stay as code and are
// listed in a footer since a terminal cannot draw them.
func Terminal(md string, opts TerminalOptions) (string, error) {
	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = defaultWordWrap
	}
	ropts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	switch strings.ToLower(strings.TrimSpace(opts.Style)) {
	case "", "auto":
		ropts = append(ropts, glamour.WithAutoStyle())
	default:
		ropts = append(ropts, glamour.WithStandardStyle(opts.Style))
	}
	r, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	if footer := diagramFooter(Diagrams([]byte(md)), opts.Hint); footer != "" {
		out += footer
	}
	return out, nil
}

func diagramFooter(diagrams []Diagram, hint string) string {
	if len(diagrams) == 0 {
		return ""
	}
	noun := "diagrams"
	if len(diagrams) == 1 {
		noun = "diagram"
	}
	line := fmt.Sprintf("%d mermaid %s in this document", len(diagrams), noun)
	if hint != "" {
		line += " · " + hint
	}
	return footerStyle.Render(line) + "\n"
}

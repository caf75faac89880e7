package output

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown content for a terminal, falling back to the raw
// markdown when glamour fails. Without color the notty style is used.
func RenderMarkdown(content string, color bool, width int) string {
	options := []glamour.TermRendererOption{}
	if color {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle("notty"))
	}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

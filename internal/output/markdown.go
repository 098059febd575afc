package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the width markdown is wrapped at.
const DefaultWordWrap = 100

// RenderMarkdown renders markdown for the terminal. Styled output adapts to the
// terminal background; otherwise the notty style keeps the text free of escapes.
func RenderMarkdown(markdown string, styled bool) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("markdown content cannot be empty")
	}

	options := []glamour.TermRendererOption{glamour.WithWordWrap(DefaultWordWrap)}
	if styled {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStylePath("notty"))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// Markdown renders markdown and writes it through the printer.
func (p *Printer) Markdown(markdown string) error {
	rendered, err := RenderMarkdown(markdown, p.IsStylable() || p.mode == ModeStyled)
	if err != nil {
		return err
	}
	p.Block(rendered)
	return nil
}

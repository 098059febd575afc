package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// PlainTextStyle implements TextStyle for plain text output without any styling.
type PlainTextStyle struct {
	prefix string
}

// NewPlainTextStyle creates a new plain text style with an optional prefix.
func NewPlainTextStyle(prefix string) *PlainTextStyle {
	return &PlainTextStyle{prefix: prefix}
}

// Render implements TextStyle.Render for plain text output.
func (p *PlainTextStyle) Render(text ...string) string {
	return p.prefix + strings.Join(text, " ")
}

// PlainStyleProvider implements StyleProvider with symbol prefixes instead of colors.
type PlainStyleProvider struct{}

// NewPlainStyleProvider creates a new plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle implements StyleProvider.GetStyle.
func (p *PlainStyleProvider) GetStyle(semantic string) TextStyle {
	switch SemanticType(semantic) {
	case SemanticSuccess:
		return NewPlainTextStyle("✓ ")
	case SemanticWarning:
		return NewPlainTextStyle("⚠ ")
	case SemanticError:
		return NewPlainTextStyle("✗ ")
	case SemanticInfo:
		return NewPlainTextStyle("ℹ ")
	default:
		return NewPlainTextStyle("")
	}
}

// IsAvailable implements StyleProvider.IsAvailable.
func (p *PlainStyleProvider) IsAvailable() bool {
	return true
}

// TerminalStyleProvider styles output with lipgloss colors.
type TerminalStyleProvider struct {
	styles map[SemanticType]lipgloss.Style
}

// NewTerminalStyleProvider creates the default color styles.
func NewTerminalStyleProvider() *TerminalStyleProvider {
	return &TerminalStyleProvider{
		styles: map[SemanticType]lipgloss.Style{
			SemanticPlain:      lipgloss.NewStyle(),
			SemanticInfo:       lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
			SemanticSuccess:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			SemanticWarning:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticError:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticPath:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			SemanticGeneration: lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
			SemanticParameter:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticBold:       lipgloss.NewStyle().Bold(true),
		},
	}
}

// GetStyle implements StyleProvider.GetStyle.
func (t *TerminalStyleProvider) GetStyle(semantic string) TextStyle {
	if style, ok := t.styles[SemanticType(semantic)]; ok {
		return style
	}
	return t.styles[SemanticPlain]
}

// IsAvailable implements StyleProvider.IsAvailable.
func (t *TerminalStyleProvider) IsAvailable() bool {
	return true
}

// String returns a string representation for debugging.
func (t *TerminalStyleProvider) String() string {
	return fmt.Sprintf("TerminalStyleProvider{styles: %d}", len(t.styles))
}

// DetectStyleProvider returns terminal styles when w supports colors, honoring
// NO_COLOR and CLICOLOR_FORCE, and nil otherwise.
func DetectStyleProvider(w io.Writer) StyleProvider {
	if termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii {
		return nil
	}
	return NewTerminalStyleProvider()
}

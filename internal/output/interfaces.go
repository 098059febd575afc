// Package output provides console output for studyda: a printer with optional
// styling, tree views of generated studies and rendered markdown summaries.
package output

// StyleProvider supplies styles for semantic output types. The printer depends only
// on this interface, so styling can be swapped or disabled.
type StyleProvider interface {
	// GetStyle returns the style for a semantic type such as "info" or "path".
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the provider can style output. The printer falls
	// back to plain text otherwise.
	IsAvailable() bool
}

// TextStyle renders text with styling. lipgloss.Style satisfies it.
type TextStyle interface {
	Render(text ...string) string
}

// Mode defines different output modes the printer can operate in.
type Mode int

const (
	// ModeAuto uses styles when a provider is available
	ModeAuto Mode = iota

	// ModeStyled forces styled output (with colors, formatting)
	ModeStyled

	// ModePlain forces plain text output (no colors, minimal formatting)
	ModePlain

	// ModeJSON outputs structured JSON for machine consumption
	ModeJSON
)

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"

	// SemanticPath represents a study path or file location.
	SemanticPath SemanticType = "path"
	// SemanticGeneration represents a generation name.
	SemanticGeneration SemanticType = "generation"
	// SemanticParameter represents a scanned parameter or binding.
	SemanticParameter SemanticType = "parameter"
	// SemanticBold represents bold text styling.
	SemanticBold SemanticType = "bold"
)

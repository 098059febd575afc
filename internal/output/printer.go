package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Printer is the main output handler that supports plain, styled and JSON output.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	silent        bool

	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes to os.Stdout with automatic mode detection.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Writer returns the destination of the printer.
func (p *Printer) Writer() io.Writer {
	return p.writer
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text with info styling.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text with success styling (typically green).
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text with warning styling (typically yellow).
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text with error styling (typically red).
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Path outputs a study path or file location.
func (p *Printer) Path(text string) {
	p.output(SemanticPath, text, false)
}

// Generation outputs a generation name.
func (p *Printer) Generation(text string) {
	p.output(SemanticGeneration, text, false)
}

// Parameter outputs a parameter name or binding.
func (p *Printer) Parameter(text string) {
	p.output(SemanticParameter, text, false)
}

// Bold outputs text with bold styling.
func (p *Printer) Bold(text string) {
	p.output(SemanticBold, text, false)
}

// Block writes pre-rendered multi-line content such as a tree or markdown. Styling
// escapes are stripped unless the printer is styled.
func (p *Printer) Block(text string) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == ModeJSON {
		_, _ = fmt.Fprint(p.writer, p.renderJSON(SemanticPlain, text))
		return
	}
	if !p.IsStylable() && p.mode != ModeStyled {
		text = ansi.Strip(text)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, _ = fmt.Fprint(p.writer, text)
}

// output is the core output method that handles all rendering logic.
func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var finalText string
	switch p.mode {
	case ModeJSON:
		finalText = p.renderJSON(semantic, text)
	case ModePlain, ModeAuto:
		finalText = p.renderText(semantic, text, addNewline)
	case ModeStyled:
		finalText = p.renderStyled(semantic, text, addNewline)
	}

	_, _ = fmt.Fprint(p.writer, finalText)
}

// renderText renders text in plain or auto mode.
func (p *Printer) renderText(semantic SemanticType, text string, addNewline bool) string {
	var result string
	if p.IsStylable() {
		result = p.styleProvider.GetStyle(string(semantic)).Render(text)
	} else {
		result = NewPlainStyleProvider().GetStyle(string(semantic)).Render(text)
	}

	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

// renderStyled renders text in forced styled mode, using the terminal styles when
// no provider was configured.
func (p *Printer) renderStyled(semantic SemanticType, text string, addNewline bool) string {
	provider := p.styleProvider
	if provider == nil || !provider.IsAvailable() {
		provider = NewTerminalStyleProvider()
	}

	result := provider.GetStyle(string(semantic)).Render(text)
	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

// renderJSON renders one message as a JSON object without styling escapes.
func (p *Printer) renderJSON(semantic SemanticType, text string) string {
	out := map[string]interface{}{
		"type":    semantic,
		"message": ansi.Strip(text),
	}

	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return text + "\n"
	}
	return string(jsonBytes) + "\n"
}

// IsStylable returns true if the printer can apply styles.
func (p *Printer) IsStylable() bool {
	return !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}

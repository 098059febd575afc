package studytypes

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a malformed or missing piece of the study configuration.
// Generation, Parameter and Key are filled in when known so the message names the
// offending entry.
type ConfigurationError struct {
	Generation string
	Parameter  string
	Key        string
	Message    string
	Err        error
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// WithGeneration sets the generation the error refers to and returns the error.
func (e *ConfigurationError) WithGeneration(generation string) *ConfigurationError {
	e.Generation = generation
	return e
}

// WithParameter sets the scanned parameter the error refers to and returns the error.
func (e *ConfigurationError) WithParameter(parameter string) *ConfigurationError {
	e.Parameter = parameter
	return e
}

// WithKey sets the configuration key the error refers to and returns the error.
func (e *ConfigurationError) WithKey(key string) *ConfigurationError {
	e.Key = key
	return e
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var context []string
	if e.Generation != "" {
		context = append(context, fmt.Sprintf("generation %q", e.Generation))
	}
	if e.Parameter != "" {
		context = append(context, fmt.Sprintf("parameter %q", e.Parameter))
	}
	if e.Key != "" {
		context = append(context, fmt.Sprintf("key %q", e.Key))
	}

	msg := "configuration error"
	if len(context) > 0 {
		msg += " (" + strings.Join(context, ", ") + ")"
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RenderError wraps a failure reported by the template engine.
type RenderError struct {
	Generation string
	Template   string
	Path       string
	Err        error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render template %q for generation %q at %s: %v", e.Template, e.Generation, e.Path, e.Err)
}

// Unwrap returns the template engine error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IOError wraps a filesystem failure while creating directories, writing scripts,
// persisting the tree or copying dependencies.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the filesystem error.
func (e *IOError) Unwrap() error {
	return e.Err
}

package config

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"studyda/pkg/studytypes"
)

// Template context names every script receives. Dependencies may not use them.
const (
	BindingParameters   = "parameters"
	BindingDependencies = "dependencies"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report configuration keys rather than Go field names.
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks the rules every configuration must satisfy before any file is
// written. It returns a *studytypes.ConfigurationError describing the first problem.
func (c *Config) Validate() error {
	if len(c.Generations) == 0 {
		return studytypes.NewConfigurationError("missing structure: at least one generation is required").WithKey(keyStructure)
	}

	if strings.ContainsAny(c.Name, `/\`) || c.Name == "." || c.Name == ".." {
		return studytypes.NewConfigurationError("study name %q must be a single directory name", c.Name).WithKey("name")
	}

	for _, gen := range c.Generations {
		if err := gen.validate(); err != nil {
			return err
		}
	}

	for _, dep := range c.Dependencies {
		if dep.Name == BindingParameters || dep.Name == BindingDependencies {
			return studytypes.NewConfigurationError("dependency name %q is reserved for the template context", dep.Name).
				WithKey(keyDependencies + "." + dep.Name)
		}
	}

	if err := structValidator().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fromValidationErrors(validationErrors)
		}
		return &studytypes.ConfigurationError{Message: "validation failed", Err: err}
	}
	return nil
}

func (g *Generation) validate() error {
	if g.Executable.Name == "" {
		return studytypes.NewConfigurationError("missing executable name").
			WithGeneration(g.Name).WithKey("executable.name")
	}
	if !g.Executable.IsTemplate() {
		return studytypes.NewConfigurationError("executables that are not templates are not supported").
			WithGeneration(g.Name).WithKey("executable.template")
	}
	if g.Name == BaseGeneration && g.HasScans {
		return studytypes.NewConfigurationError("generation %q must not declare scans", BaseGeneration).
			WithGeneration(g.Name).WithKey(keyScans)
	}
	for _, scan := range g.Scans {
		if scan.Mode == ScanModeUnset {
			return studytypes.NewConfigurationError("scanning method for parameter %s is not recognized", scan.Parameter).
				WithGeneration(g.Name).WithParameter(scan.Parameter)
		}
	}
	return nil
}

// fromValidationErrors lists every failed field as "field (tag)".
func fromValidationErrors(validationErrors validator.ValidationErrors) *studytypes.ConfigurationError {
	var fields []string
	for _, fieldErr := range validationErrors {
		namespace := fieldErr.Namespace()
		if idx := strings.Index(namespace, "."); idx >= 0 {
			namespace = namespace[idx+1:]
		}
		fields = append(fields, namespace+" ("+fieldErr.Tag()+")")
	}
	return studytypes.NewConfigurationError("validation failed on %s", strings.Join(fields, ", "))
}

// Package config parses a study configuration document into typed structures.
// The document is read once at the yaml.Node level so that generations, scans and
// dependencies keep the order in which they were declared.
package config

import (
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BaseGeneration is the name of the generation that may never declare scans.
const BaseGeneration = "base"

// Config is the typed form of a study configuration document.
type Config struct {
	// Name is the study root directory name.
	Name string `yaml:"name" validate:"required"`

	// Generations are the stages of the study, in declaration order.
	Generations []*Generation `yaml:"structure" validate:"required,min=1,dive"`

	// Dependencies are files copied into the study root, in declaration order.
	Dependencies []Dependency `yaml:"dependencies" validate:"dive"`

	// Payloads holds every other top-level section verbatim (config_particles,
	// config_mad, config_simulation, ...). They are not interpreted here.
	Payloads []Payload `yaml:"-"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-"`

	// Dir is the directory relative paths in the configuration resolve against.
	Dir string `yaml:"-"`
}

// Generation is one named stage of the study.
type Generation struct {
	Name       string     `yaml:"name" validate:"required"`
	Executable Executable `yaml:"executable"`

	// HasScans is true when the generation declares a scans section, even an empty one.
	HasScans bool       `yaml:"-"`
	Scans    []ScanSpec `yaml:"scans" validate:"dive"`
}

// Executable names the template a generation renders.
type Executable struct {
	Name string `yaml:"name"`

	// Template is nil when the key is absent, which counts as template-based.
	Template *bool `yaml:"template"`

	// Path is an optional template directory, relative to the configuration file.
	Path string `yaml:"path"`
}

// IsTemplate reports whether the executable is rendered from a template.
func (e Executable) IsTemplate() bool {
	return e.Template == nil || *e.Template
}

// Dependency is a file shared by every script of the study.
type Dependency struct {
	Name   string `yaml:"name" validate:"required"`
	Source string `yaml:"source" validate:"required"`
}

// Payload is an opaque top-level section of the configuration.
type Payload struct {
	Key  string
	Node *yaml.Node
}

// ScanMode identifies how a scan produces its values.
type ScanMode int

const (
	// ScanModeUnset means no recognized resolution key was declared.
	ScanModeUnset ScanMode = iota
	// ScanModeLinspace produces evenly spaced values.
	ScanModeLinspace
	// ScanModeLogspace produces logarithmically spaced values.
	ScanModeLogspace
	// ScanModePathList substitutes indices into a path template.
	ScanModePathList
	// ScanModeList uses an explicit list of values.
	ScanModeList
)

// String returns the configuration key of the mode.
func (m ScanMode) String() string {
	switch m {
	case ScanModeLinspace:
		return "linspace"
	case ScanModeLogspace:
		return "logspace"
	case ScanModePathList:
		return "path_list"
	case ScanModeList:
		return "list"
	default:
		return "unset"
	}
}

// ScanSpec declares the sweep of one parameter within a generation.
type ScanSpec struct {
	Parameter string `yaml:"parameter" validate:"required"`
	Mode      ScanMode

	// Range is set for linspace and logspace. For logspace the bounds are exponents.
	Range Range

	// PathList is set for path_list.
	PathList PathList

	// Values is set for list.
	Values []interface{}

	// Subvariables, when present, turns every bound value into a record.
	Subvariables []string
}

// Range holds the arguments of linspace and logspace.
type Range struct {
	Start float64
	Stop  float64
	Count int
}

// PathList holds the arguments of path_list: every index n in [Start, End) is
// substituted into Template.
type PathList struct {
	Template string
	Start    int
	End      int
}

// Generation returns the generation called name.
func (c *Config) Generation(name string) (*Generation, bool) {
	for _, gen := range c.Generations {
		if gen.Name == name {
			return gen, true
		}
	}
	return nil, false
}

// ResolvePath turns a path from the configuration into a host path, relative
// paths being taken from the configuration file's directory.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// Payload returns the opaque section stored under key.
func (c *Config) Payload(key string) (*yaml.Node, bool) {
	for _, payload := range c.Payloads {
		if payload.Key == key {
			return payload.Node, true
		}
	}
	return nil, false
}

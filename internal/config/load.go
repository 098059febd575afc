package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"studyda/internal/logger"
	"studyda/pkg/studytypes"
)

// Top-level keys of the configuration document.
const (
	keyName         = "name"
	keyStructure    = "structure"
	keyDependencies = "dependencies"
	keyExecutable   = "executable"
	keyScans        = "scans"
)

// Keys of a scan declaration.
const (
	keyLinspace     = "linspace"
	keyLogspace     = "logspace"
	keyPathList     = "path_list"
	keyList         = "list"
	keySubvariables = "subvariables"
)

// Load reads, parses and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &studytypes.IOError{Op: "read configuration", Path: path, Err: err}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	cfg, err := Parse(data, filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}
	cfg.Path = absPath

	logger.Debug("Configuration loaded", "path", absPath, "study", cfg.Name, "generations", len(cfg.Generations))
	return cfg, nil
}

// Parse decodes a configuration document and validates it. Relative paths in the
// document resolve against dir.
func Parse(data []byte, dir string) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &studytypes.ConfigurationError{Message: "invalid YAML", Err: err}
	}

	cfg := &Config{Dir: dir}
	if len(doc.Content) == 0 {
		return nil, studytypes.NewConfigurationError("configuration document is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, studytypes.NewConfigurationError("configuration document must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]

		switch key {
		case keyName:
			if err := value.Decode(&cfg.Name); err != nil {
				return nil, &studytypes.ConfigurationError{Key: keyName, Message: "study name must be a string", Err: err}
			}
		case keyStructure:
			generations, err := parseStructure(value)
			if err != nil {
				return nil, err
			}
			cfg.Generations = generations
		case keyDependencies:
			dependencies, err := parseDependencies(value)
			if err != nil {
				return nil, err
			}
			cfg.Dependencies = dependencies
		default:
			cfg.Payloads = append(cfg.Payloads, Payload{Key: key, Node: value})
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseStructure(node *yaml.Node) ([]*Generation, error) {
	if node.Kind != yaml.MappingNode {
		return nil, studytypes.NewConfigurationError("structure must map generation names to generations").WithKey(keyStructure)
	}

	seen := make(map[string]bool)
	var generations []*Generation
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if seen[name] {
			return nil, studytypes.NewConfigurationError("generation declared twice").WithGeneration(name)
		}
		seen[name] = true

		gen, err := parseGeneration(name, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		generations = append(generations, gen)
	}
	return generations, nil
}

func parseGeneration(name string, node *yaml.Node) (*Generation, error) {
	gen := &Generation{Name: name}
	if node.Kind != yaml.MappingNode {
		return nil, studytypes.NewConfigurationError("generation must be a mapping").WithGeneration(name)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		switch key {
		case keyExecutable:
			if err := value.Decode(&gen.Executable); err != nil {
				return nil, &studytypes.ConfigurationError{Generation: name, Key: keyExecutable, Message: "invalid executable", Err: err}
			}
		case keyScans:
			gen.HasScans = true
			scans, err := parseScans(name, value)
			if err != nil {
				return nil, err
			}
			gen.Scans = scans
		}
	}
	return gen, nil
}

func parseScans(generation string, node *yaml.Node) ([]ScanSpec, error) {
	// An empty "scans:" decodes as a null scalar.
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, studytypes.NewConfigurationError("scans must map parameter names to scan declarations").
			WithGeneration(generation).WithKey(keyScans)
	}

	seen := make(map[string]bool)
	var scans []ScanSpec
	for i := 0; i+1 < len(node.Content); i += 2 {
		parameter := node.Content[i].Value
		if seen[parameter] {
			return nil, studytypes.NewConfigurationError("parameter scanned twice").
				WithGeneration(generation).WithParameter(parameter)
		}
		seen[parameter] = true

		spec, err := parseScanSpec(parameter, node.Content[i+1])
		if err != nil {
			var cfgErr *studytypes.ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.WithGeneration(generation)
			}
			return nil, err
		}
		scans = append(scans, spec)
	}
	return scans, nil
}

func parseScanSpec(parameter string, node *yaml.Node) (ScanSpec, error) {
	spec := ScanSpec{Parameter: parameter}
	if node.Kind != yaml.MappingNode {
		return spec, studytypes.NewConfigurationError("scan declaration must be a mapping").WithParameter(parameter)
	}

	var modes []ScanMode
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		var err error
		switch key {
		case keyLinspace:
			spec.Range, err = parseRange(value)
			modes = append(modes, ScanModeLinspace)
		case keyLogspace:
			spec.Range, err = parseRange(value)
			modes = append(modes, ScanModeLogspace)
		case keyPathList:
			spec.PathList, err = parsePathList(value)
			modes = append(modes, ScanModePathList)
		case keyList:
			spec.Values, err = parseList(value)
			modes = append(modes, ScanModeList)
		case keySubvariables:
			err = value.Decode(&spec.Subvariables)
		}
		if err != nil {
			return spec, &studytypes.ConfigurationError{Parameter: parameter, Key: key, Message: "invalid scan arguments", Err: err}
		}
	}

	switch len(modes) {
	case 0:
		return spec, studytypes.NewConfigurationError("scanning method for parameter %s is not recognized", parameter).
			WithParameter(parameter)
	case 1:
		spec.Mode = modes[0]
	default:
		return spec, studytypes.NewConfigurationError("parameter %s declares %d scanning methods, expected exactly one", parameter, len(modes)).
			WithParameter(parameter)
	}
	return spec, nil
}

func parseRange(node *yaml.Node) (Range, error) {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 3 {
		return Range{}, fmt.Errorf("expected [start, stop, count]")
	}

	var r Range
	if err := node.Content[0].Decode(&r.Start); err != nil {
		return r, fmt.Errorf("start: %w", err)
	}
	if err := node.Content[1].Decode(&r.Stop); err != nil {
		return r, fmt.Errorf("stop: %w", err)
	}
	if err := node.Content[2].Decode(&r.Count); err != nil {
		return r, fmt.Errorf("count: %w", err)
	}
	if r.Count < 0 {
		return r, fmt.Errorf("count must not be negative, got %d", r.Count)
	}
	return r, nil
}

func parsePathList(node *yaml.Node) (PathList, error) {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 3 {
		return PathList{}, fmt.Errorf("expected [template, start_index, end_index]")
	}

	var p PathList
	if err := node.Content[0].Decode(&p.Template); err != nil {
		return p, fmt.Errorf("template: %w", err)
	}
	if err := node.Content[1].Decode(&p.Start); err != nil {
		return p, fmt.Errorf("start_index: %w", err)
	}
	if err := node.Content[2].Decode(&p.End); err != nil {
		return p, fmt.Errorf("end_index: %w", err)
	}
	return p, nil
}

func parseList(node *yaml.Node) ([]interface{}, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a sequence of values")
	}

	values := make([]interface{}, 0, len(node.Content))
	for _, item := range node.Content {
		var value interface{}
		if err := item.Decode(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func parseDependencies(node *yaml.Node) ([]Dependency, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, studytypes.NewConfigurationError("dependencies must map names to file paths").WithKey(keyDependencies)
	}

	var dependencies []Dependency
	for i := 0; i+1 < len(node.Content); i += 2 {
		dep := Dependency{Name: node.Content[i].Value}
		if err := node.Content[i+1].Decode(&dep.Source); err != nil {
			return nil, &studytypes.ConfigurationError{Key: keyDependencies + "." + dep.Name, Message: "dependency must be a file path", Err: err}
		}
		dependencies = append(dependencies, dep)
	}
	return dependencies, nil
}

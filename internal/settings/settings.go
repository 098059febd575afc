// Package settings resolves the runtime settings of studyda. Sources, from lowest
// to highest precedence: built-in defaults, a .env file, a .studyda.yaml file,
// STUDYDA_* environment variables and command-line flags.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by studyda.
const EnvPrefix = "STUDYDA"

// Setting keys, shared by flags, files and environment variables.
const (
	KeyLogLevel    = "log-level"
	KeyLogFile     = "log-file"
	KeyTestMode    = "test-mode"
	KeyOutputDir   = "output-dir"
	KeyTemplateDir = "template-dir"
	KeyWorkers     = "workers"
)

// Settings are the resolved runtime settings.
type Settings struct {
	LogLevel    string `mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error fatal"`
	LogFile     string `mapstructure:"log-file"`
	TestMode    bool   `mapstructure:"test-mode"`
	OutputDir   string `mapstructure:"output-dir" validate:"required"`
	TemplateDir string `mapstructure:"template-dir"`
	Workers     int    `mapstructure:"workers" validate:"min=1,max=256"`
}

// New creates a viper instance with defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyTemplateDir, "")
	v.SetDefault(KeyWorkers, 1)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv reads STUDYDA_* entries of a .env file as defaults, so settings files,
// the environment and flags still take precedence. A missing file is not an error.
func LoadDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	for key, value := range envMap {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok {
			continue
		}
		v.SetDefault(strings.ReplaceAll(strings.ToLower(name), "_", "-"), value)
	}
	return nil
}

// ReadConfigFile merges a settings file into v. With an empty path, .studyda.yaml is
// looked up in the working directory and skipped when absent.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".studyda")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	return nil
}

// Resolve decodes and validates the settings held by v.
func Resolve(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.LogLevel = strings.ToLower(s.LogLevel)

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

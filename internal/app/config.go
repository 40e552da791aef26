package app

import (
	"errors"
	"fmt"
)

// Output formats for the bound arguments.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // hcl file or directory
	// Prog overrides the program name shown in usage output. Defaults to the
	// command name from the manifest.
	Prog string
	// Args are the tokens bound against the manifest's parameters.
	Args []string

	LogFormat string
	LogLevel  string
	Output    string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}

	switch cfg.Output {
	case "":
		cfg.Output = OutputText
	case OutputText, OutputJSON:
	default:
		return nil, fmt.Errorf("invalid output format %q: must be %q or %q", cfg.Output, OutputText, OutputJSON)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	return &cfg, nil
}

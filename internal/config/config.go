// Package config loads and validates the runner configuration.
//
// DESIGN: YAML with ${VAR:-default} environment expansion. Unlike a server
// deployment, a config file is optional for a CLI runner: Default() supplies
// a working configuration and every field can be overridden by flags.
//
// FILES:
//   - config.go:     Root Config struct, Default(), Load(), Validate()
//   - frameworks.go: Framework adapter settings
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for scriptseam.
type Config struct {
	Run        RunConfig        `yaml:"run"`        // Entry point defaults
	Frameworks FrameworksConfig `yaml:"frameworks"` // Framework adapter settings
	Monitoring MonitoringConfig `yaml:"monitoring"` // Logging, telemetry, monitor stream
}

// RunConfig contains defaults for the run subcommand.
type RunConfig struct {
	Framework  string   `yaml:"framework"`   // Framework adapter name
	Plugins    []string `yaml:"plugins"`     // Built-in interceptors to load, in discovery order
	ResultFile string   `yaml:"result_file"` // Where to write a serializable result
}

// MonitoringConfig contains logging and observability settings.
type MonitoringConfig struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json, console, auto
	LogOutput string `yaml:"log_output"` // stdout, stderr, or file path

	TelemetryPath string `yaml:"telemetry_path"` // JSONL file of execution records, empty disables
	MonitorAddr   string `yaml:"monitor_addr"`   // WebSocket monitor listen address, empty disables
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Framework: "sqlite",
			Plugins:   []string{"extract"},
		},
		Monitoring: MonitoringConfig{
			LogLevel:  "info",
			LogFormat: "auto",
			LogOutput: "stderr",
		},
	}
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads configuration from a YAML file, layered over Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes with env expansion
// and validation.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	switch c.Monitoring.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("monitoring: unknown log_level %q", c.Monitoring.LogLevel)
	}
	switch c.Monitoring.LogFormat {
	case "json", "console", "auto":
	default:
		return fmt.Errorf("monitoring: unknown log_format %q, must be 'json', 'console', or 'auto'", c.Monitoring.LogFormat)
	}
	if c.Run.Framework == "" {
		return fmt.Errorf("run: framework is required")
	}
	return c.Frameworks.Validate()
}

// Package config loads the writer configuration: the maximum output line
// width and localized admonition labels.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxLineWidth is the wrap width used when none is configured.
const DefaultMaxLineWidth = 120

// Config holds the translation settings.
type Config struct {
	// MaxLineWidth is the display-column width at which output is wrapped.
	MaxLineWidth int `yaml:"max_line_width"`
	// AdmonitionLabels overrides display labels per admonition kind,
	// e.g. note: "Nota". Unlisted kinds keep their built-in label.
	AdmonitionLabels map[string]string `yaml:"admonition_labels"`
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{MaxLineWidth: DefaultMaxLineWidth}
}

// Load reads a YAML config file, applying defaults for absent fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.MaxLineWidth == 0 {
		cfg.MaxLineWidth = DefaultMaxLineWidth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the translator would reject.
func (c *Config) Validate() error {
	if c.MaxLineWidth <= 0 {
		return fmt.Errorf("max_line_width must be positive, got %d", c.MaxLineWidth)
	}
	return nil
}

// Package config loads the optional weft.yaml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-weft/weft/pkg/core"
)

// SupportedSchema is the config schema major version this build understands.
const SupportedSchema = "v1"

// Config represents the optional weft.yaml configuration.
type Config struct {
	// Schema is the config schema version, e.g. "v1" or "v1.2.0".
	// Empty means SupportedSchema.
	Schema  string        `yaml:"schema,omitempty"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// RuntimeConfig contains runtime settings.
type RuntimeConfig struct {
	// EffectOrder is "parent-first" (default) or "child-first".
	EffectOrder string `yaml:"effectOrder,omitempty"`
	// MaxFlushIterations bounds flush convergence; 0 means the default.
	MaxFlushIterations int `yaml:"maxFlushIterations,omitempty"`
	// Debug enables the runtime's diagnostic instrumentation.
	Debug bool `yaml:"debug,omitempty"`
}

// LoadOptional reads weft.yaml from dir if present. A missing file yields a
// zero Config, not an error.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "weft.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read weft.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse weft.yaml: %w", err)
	}

	return &cfg, nil
}

// Validate checks the schema version and enumerated fields.
func (c *Config) Validate() error {
	if c.Schema != "" {
		if !semver.IsValid(c.Schema) {
			return fmt.Errorf("invalid schema version %q: must be a semantic version like %q", c.Schema, SupportedSchema)
		}
		if semver.Major(c.Schema) != SupportedSchema {
			return fmt.Errorf("unsupported schema version %q: this build supports %s", c.Schema, SupportedSchema)
		}
	}
	switch c.Runtime.EffectOrder {
	case "", "parent-first", "child-first":
	default:
		return fmt.Errorf("invalid effectOrder %q: must be \"parent-first\" or \"child-first\"", c.Runtime.EffectOrder)
	}
	if c.Runtime.MaxFlushIterations < 0 {
		return fmt.Errorf("invalid maxFlushIterations %d: must be non-negative", c.Runtime.MaxFlushIterations)
	}
	return nil
}

// Options converts the config into runtime options. Validate is applied
// first; invalid configs produce no options and an error.
func (c *Config) Options() ([]core.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var opts []core.Option
	if c.Runtime.EffectOrder == "child-first" {
		opts = append(opts, core.WithEffectOrder(core.ChildFirst))
	}
	if c.Runtime.MaxFlushIterations > 0 {
		opts = append(opts, core.WithMaxFlushIterations(c.Runtime.MaxFlushIterations))
	}
	if c.Runtime.Debug {
		core.SetDebugMode(true)
	}
	return opts, nil
}

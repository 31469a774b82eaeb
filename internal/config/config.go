// Package config loads tinge defaults from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the group command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHex  = "hex"
)

// Preview modes for ANSI swatches.
const (
	PreviewAuto   = "auto"
	PreviewAlways = "always"
	PreviewNever  = "never"
)

// Environment variables read by Load.
const (
	EnvThreshold = "TINGE_THRESHOLD"
	EnvFormat    = "TINGE_FORMAT"
	EnvPreview   = "TINGE_PREVIEW"
	EnvConfig    = "TINGE_CONFIG"
)

// DefaultThreshold is the CIEDE2000 cut height used when nothing else is set.
const DefaultThreshold = 10.0

// Config holds the user-tunable defaults.
type Config struct {
	Threshold float64 `yaml:"threshold"`
	Format    string  `yaml:"format"`
	Preview   string  `yaml:"preview"`
	Width     int     `yaml:"width"`

	// Source lists where values were loaded from, lowest priority first.
	Source []string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Threshold: DefaultThreshold,
		Format:    FormatText,
		Preview:   PreviewAuto,
		Width:     8,
		Source:    []string{"defaults"},
	}
}

// DefaultPath returns $TINGE_CONFIG, or config.yaml under the user config
// directory. It returns "" when neither can be determined.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tinge", "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path and
// environment variables, in that order. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - User config file, intended to be read
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Source = append(c.Source, path)
	return nil
}

func (c *Config) loadEnv() error {
	applied := false

	if v := os.Getenv(EnvThreshold); v != "" {
		t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvThreshold, v, err)
		}
		c.Threshold = t
		applied = true
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = strings.ToLower(strings.TrimSpace(v))
		applied = true
	}
	if v := os.Getenv(EnvPreview); v != "" {
		c.Preview = strings.ToLower(strings.TrimSpace(v))
		applied = true
	}

	if applied {
		c.Source = append(c.Source, "environment")
	}
	return nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 {
		return fmt.Errorf("threshold must be a non-negative number, got %v", c.Threshold)
	}
	if !slices.Contains(Formats(), c.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", c.Format, strings.Join(Formats(), ", "))
	}
	if !slices.Contains(PreviewModes(), c.Preview) {
		return fmt.Errorf("invalid preview mode: %s (valid: %s)", c.Preview, strings.Join(PreviewModes(), ", "))
	}
	if c.Width < 1 || c.Width > 64 {
		return fmt.Errorf("swatch width must be between 1 and 64, got %d", c.Width)
	}
	return nil
}

// Formats returns the valid output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatHex}
}

// PreviewModes returns the valid preview modes.
func PreviewModes() []string {
	return []string{PreviewAuto, PreviewAlways, PreviewNever}
}

// Package config loads settings for the jsonpeg tool from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/creachadair/pegjson"
	"github.com/creachadair/pegjson/internal/logutil"
)

// Config represents the complete configuration for jsonpeg
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Output OutputConfig `yaml:"output"`

	// Workers bounds the number of files checked concurrently.
	// Zero or less means one per file.
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
}

// ParserConfig controls the limits and dialect of the recognizer
type ParserConfig struct {
	MaxDepth     int  `yaml:"max_depth"`
	MaxInputSize int  `yaml:"max_input_size"`
	JWCC         bool `yaml:"jwcc"`
}

// OutputConfig controls how results are reported
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "json"
	Stats  bool   `yaml:"stats"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth:     pegjson.DefaultMaxDepth,
			MaxInputSize: pegjson.DefaultMaxInputSize,
		},
		Output:   OutputConfig{Format: FormatText},
		Workers:  8,
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from a YAML file. Settings missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports an error if c contains out-of-range settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Parser.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative: %d", c.Parser.MaxDepth))
	}
	if c.Parser.MaxInputSize < 0 {
		errs = append(errs, fmt.Errorf("max_input_size must not be negative: %d", c.Parser.MaxInputSize))
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output.Format))
	}
	if _, err := logutil.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewParser returns a parser with the limits and dialect of c.
func (c *Config) NewParser() *pegjson.Parser {
	p := pegjson.NewParser()
	p.SetMaxDepth(c.Parser.MaxDepth)
	p.SetMaxInputSize(c.Parser.MaxInputSize)
	p.AllowJWCC(c.Parser.JWCC)
	return p
}

// FindConfigFile searches for a config file in dir and its parents, and
// returns its path or "" if none is found.
func FindConfigFile(dir string) string {
	configNames := []string{".jsonpeg.yaml", ".jsonpeg.yml"}

	cur, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range configNames {
			path := filepath.Join(cur, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break // reached the root
		}
		cur = parent
	}
	return ""
}

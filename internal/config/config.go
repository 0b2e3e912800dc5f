// Package config provides configuration loading for rdfconv.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdfgraph/rdf"
)

// Config represents the complete rdfconv configuration
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// DefaultFormat is used when a target format cannot be inferred.
	DefaultFormat string `yaml:"default_format"`
	// Context overrides the context of every parsed graph.
	Context    string            `yaml:"context"`
	Namespaces []NamespaceConfig `yaml:"namespaces"`
	Datatypes  []DatatypeConfig  `yaml:"datatypes"`
	Limits     LimitsConfig      `yaml:"limits"`
	Watch      WatchConfig       `yaml:"watch"`
	// MetricsAddr is the listen address of the Prometheus endpoint during
	// watch; empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
}

// NamespaceConfig binds a prefix to a namespace URI
type NamespaceConfig struct {
	Prefix string `yaml:"prefix"`
	URI    string `yaml:"uri"`
}

// DatatypeConfig registers an additional datatype
type DatatypeConfig struct {
	Prefix    string `yaml:"prefix"`
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	// Category is one of string, boolean, datetime, timespan, numeric.
	Category string `yaml:"category"`
}

// LimitsConfig bounds parsing of untrusted input
type LimitsConfig struct {
	MaxLineBytes int   `yaml:"max_line_bytes"`
	MaxTriples   int64 `yaml:"max_triples"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	// Debounce is how long to wait for more changes before converting.
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DefaultFormat: string(rdf.FormatTurtle),
		Limits: LimitsConfig{
			MaxLineBytes: rdf.DefaultMaxLineBytes,
			MaxTriples:   rdf.DefaultMaxTriples,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if _, ok := rdf.ParseFormat(c.DefaultFormat); !ok {
		return fmt.Errorf("default_format %q: %w", c.DefaultFormat, rdf.ErrUnsupportedFormat)
	}
	if c.Context != "" {
		if err := rdf.ValidateIRI(c.Context); err != nil {
			return fmt.Errorf("context: %w", err)
		}
	}
	for i, ns := range c.Namespaces {
		if ns.Prefix == "" {
			return fmt.Errorf("namespaces[%d].prefix is required", i)
		}
		if err := rdf.ValidateIRI(ns.URI); err != nil {
			return fmt.Errorf("namespaces[%d].uri: %w", i, err)
		}
	}
	for i, dt := range c.Datatypes {
		if dt.Name == "" {
			return fmt.Errorf("datatypes[%d].name is required", i)
		}
		if err := rdf.ValidateIRI(dt.Namespace); err != nil {
			return fmt.Errorf("datatypes[%d].namespace: %w", i, err)
		}
		if dt.Category != "" {
			if _, err := rdf.ParseCategory(dt.Category); err != nil {
				return fmt.Errorf("datatypes[%d]: %w", i, err)
			}
		}
	}
	if c.Limits.MaxLineBytes < 0 || c.Limits.MaxTriples < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Namespace and datatype lists accumulate.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DefaultFormat != "" {
		c.DefaultFormat = other.DefaultFormat
	}
	if other.Context != "" {
		c.Context = other.Context
	}
	c.Namespaces = append(c.Namespaces, other.Namespaces...)
	c.Datatypes = append(c.Datatypes, other.Datatypes...)

	if other.Limits.MaxLineBytes != 0 {
		c.Limits.MaxLineBytes = other.Limits.MaxLineBytes
	}
	if other.Limits.MaxTriples != 0 {
		c.Limits.MaxTriples = other.Limits.MaxTriples
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.MetricsAddr != "" {
		c.MetricsAddr = other.MetricsAddr
	}
}

// Apply seeds registry with the configured namespaces and datatypes.
func (c *Config) Apply(registry *rdf.Registry) error {
	for _, ns := range c.Namespaces {
		if err := registry.Namespaces.Register(rdf.Namespace{Prefix: ns.Prefix, URI: ns.URI}); err != nil {
			return fmt.Errorf("namespace %s: %w", ns.Prefix, err)
		}
	}
	for _, dt := range c.Datatypes {
		category := rdf.CategoryString
		if dt.Category != "" {
			parsed, err := rdf.ParseCategory(dt.Category)
			if err != nil {
				return fmt.Errorf("datatype %s: %w", dt.Name, err)
			}
			category = parsed
		}
		if _, err := registry.Datatypes.Register(rdf.Datatype{
			Prefix:    dt.Prefix,
			Namespace: dt.Namespace,
			Name:      dt.Name,
			Category:  category,
		}); err != nil {
			return fmt.Errorf("datatype %s: %w", dt.Name, err)
		}
	}
	return nil
}

// Options translates the configuration into codec options.
func (c *Config) Options(registry *rdf.Registry) []rdf.Option {
	opts := []rdf.Option{
		rdf.OptRegistry(registry),
		rdf.OptMaxLineBytes(c.Limits.MaxLineBytes),
		rdf.OptMaxTriples(c.Limits.MaxTriples),
	}
	if c.Context != "" {
		opts = append(opts, rdf.OptGraphContext(c.Context))
	}
	return opts
}

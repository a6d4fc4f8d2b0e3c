// Package config loads codedoc.yaml: conversion defaults, custom formats,
// output locations, publishing and logging.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "codedoc.yaml"

// CurrentVersion is the configuration schema version written by Init.
const CurrentVersion = "1"

// Config is the codedoc configuration file.
type Config struct {
	Version  string                  `yaml:"version"`
	Defaults DefaultsConfig          `yaml:"defaults"`
	Formats  map[string]FormatConfig `yaml:"formats,omitempty"`
	Output   OutputConfig            `yaml:"output"`
	Publish  PublishConfig           `yaml:"publish,omitempty"`
	Watch    WatchConfig             `yaml:"watch,omitempty"`
	Logging  LoggingConfig           `yaml:"logging"`
}

// DefaultsConfig holds per-conversion defaults.
type DefaultsConfig struct {
	MaxFileSize int64  `yaml:"max_file_size"`
	MaxLines    int    `yaml:"max_lines"`
	Encoding    string `yaml:"encoding,omitempty"`
	// Indent is the pretty-print width for structured data.
	Indent int `yaml:"indent"`
	// IncludeMetadata, IncludeStats, IncludeTOC and LineNumbers default to
	// true when unset.
	IncludeMetadata *bool    `yaml:"include_metadata,omitempty"`
	IncludeStats    *bool    `yaml:"include_stats,omitempty"`
	IncludeTOC      *bool    `yaml:"include_toc,omitempty"`
	LineNumbers     *bool    `yaml:"line_numbers,omitempty"`
	AutoTags        bool     `yaml:"auto_tags"`
	GitInfo         bool     `yaml:"git_info"`
	Tags            []string `yaml:"tags,omitempty"`
	Template        string   `yaml:"template,omitempty"`
	Recursive       bool     `yaml:"recursive"`
	Exclude         []string `yaml:"exclude,omitempty"`
	Workers         int      `yaml:"workers"`
}

// MetadataEnabled reports include_metadata, defaulting to true.
func (d DefaultsConfig) MetadataEnabled() bool {
	return d.IncludeMetadata == nil || *d.IncludeMetadata
}

// StatsEnabled reports include_stats, defaulting to true.
func (d DefaultsConfig) StatsEnabled() bool {
	return d.IncludeStats == nil || *d.IncludeStats
}

// TOCEnabled reports include_toc, defaulting to true.
func (d DefaultsConfig) TOCEnabled() bool {
	return d.IncludeTOC == nil || *d.IncludeTOC
}

// LineNumbersEnabled reports line_numbers, defaulting to true.
func (d DefaultsConfig) LineNumbersEnabled() bool {
	return d.LineNumbers == nil || *d.LineNumbers
}

// FormatConfig registers or overrides one extension.
type FormatConfig struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category,omitempty"`
	Highlight   string `yaml:"highlight,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
	MIMEType    string `yaml:"mime_type,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// OutputConfig controls where results go.
type OutputConfig struct {
	Directory   string `yaml:"directory,omitempty"`
	TemplateDir string `yaml:"template_dir,omitempty"`
	// Incremental skips files whose content and settings are unchanged since
	// the last run recorded in StateDB.
	Incremental bool   `yaml:"incremental"`
	StateDB     string `yaml:"state_db,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// PublishConfig sends every record to a NATS subject when NATSURL is set.
type PublishConfig struct {
	NATSURL string        `yaml:"nats_url,omitempty"`
	Subject string        `yaml:"subject,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Retry   RetryConfig   `yaml:"retry,omitempty"`
}

// Enabled reports whether publishing is configured.
func (p PublishConfig) Enabled() bool { return p.NATSURL != "" }

// RetryConfig controls publish retries.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries *int             `yaml:"max_retries,omitempty"`
}

// Retries returns max_retries, with the default applied.
func (r RetryConfig) Retries() int {
	if r.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *r.MaxRetries
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// Rescan triggers a full conversion pass on a fixed interval; zero disables it.
	Rescan time.Duration `yaml:"rescan,omitempty"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. An empty path loads DefaultPath when
// it exists and the built-in defaults otherwise.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).Build()
	}
	return Parse(data)
}

// Parse decodes configuration YAML, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported configuration version %q (expected %s)", cfg.Version, CurrentVersion)).Build()
	}
	cfg.Version = CurrentVersion

	// Normalization runs before defaults so canonical values drive them.
	res := NormalizeConfig(&cfg)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
	}
	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to apply defaults").Build()
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

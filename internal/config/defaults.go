package config

import (
	"fmt"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/codedoc/internal/content"
)

// Built-in defaults.
const (
	DefaultWorkers      = 4
	DefaultIndent       = 2
	MaxIndent           = 8
	DefaultSubject      = "codedoc.records"
	DefaultStateDB      = ".codedoc/state.db"
	DefaultPublishTO    = 5 * time.Second
	DefaultDebounce     = 300 * time.Millisecond
	DefaultRetryInitial = 500 * time.Millisecond
	DefaultRetryMax     = 5 * time.Second
	DefaultMaxRetries   = 2
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&ConversionDefaultApplier{},
			&OutputDefaultApplier{},
			&PublishDefaultApplier{},
			&WatchDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// ConversionDefaultApplier handles the defaults section.
type ConversionDefaultApplier struct{}

func (*ConversionDefaultApplier) Domain() string { return "defaults" }

func (*ConversionDefaultApplier) ApplyDefaults(cfg *Config) error {
	d := &cfg.Defaults
	if d.MaxFileSize <= 0 {
		d.MaxFileSize = content.DefaultMaxFileSize
	}
	if d.Workers <= 0 {
		d.Workers = DefaultWorkers
	}
	if d.Indent == 0 {
		d.Indent = DefaultIndent
	}
	if d.Recursive && len(d.Exclude) == 0 {
		// Recursive runs would otherwise convert their own output.
		d.Exclude = []string{"**/*.md"}
	}
	return nil
}

// OutputDefaultApplier handles the output section.
type OutputDefaultApplier struct{}

func (*OutputDefaultApplier) Domain() string { return "output" }

func (*OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Incremental && cfg.Output.StateDB == "" {
		cfg.Output.StateDB = DefaultStateDB
		if cfg.Output.Directory != "" {
			cfg.Output.StateDB = filepath.Join(cfg.Output.Directory, DefaultStateDB)
		}
	}
	return nil
}

// PublishDefaultApplier handles the publish section.
type PublishDefaultApplier struct{}

func (*PublishDefaultApplier) Domain() string { return "publish" }

func (*PublishDefaultApplier) ApplyDefaults(cfg *Config) error {
	p := &cfg.Publish
	if p.Subject == "" {
		p.Subject = DefaultSubject
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultPublishTO
	}
	if p.Retry.Backoff == "" {
		p.Retry.Backoff = RetryBackoffExponential
	}
	if p.Retry.Initial <= 0 {
		p.Retry.Initial = DefaultRetryInitial
	}
	if p.Retry.Max <= 0 {
		p.Retry.Max = DefaultRetryMax
	}
	if p.Retry.MaxRetries == nil {
		n := DefaultMaxRetries
		p.Retry.MaxRetries = &n
	} else if *p.Retry.MaxRetries < 0 {
		n := 0
		p.Retry.MaxRetries = &n
	}
	return nil
}

// WatchDefaultApplier handles the watch section.
type WatchDefaultApplier struct{}

func (*WatchDefaultApplier) Domain() string { return "watch" }

func (*WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	return nil
}

// LoggingDefaultApplier handles the logging section.
type LoggingDefaultApplier struct{}

func (*LoggingDefaultApplier) Domain() string { return "logging" }

func (*LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

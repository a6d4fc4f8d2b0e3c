// Package commands implements the codedoc command-line interface.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/codedoc/internal/config"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command with global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: codedoc.yaml when present)" placeholder:"PATH"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	Quiet     bool             `short:"q" help:"Suppress non-error output"`
	LogLevel  string           `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string           `name:"log-format" help:"Log format: text or json"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert files, directories or glob patterns into Markdown"`
	Formats FormatsCmd `cmd:"" help:"List supported formats"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Watch   WatchCmd   `cmd:"" help:"Convert inputs, then reconvert them whenever they change"`

	stdout io.Writer
	stderr io.Writer
}

// AfterApply runs after flag parsing; set up logging from the flags. Levels
// from the configuration file are applied once it is loaded.
func (c *CLI) AfterApply(g *Global) error {
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	if c.LogLevel != "" && config.NormalizeLogLevel(c.LogLevel) == "" {
		return ferrors.ValidationError("unknown log level").WithContext("level", c.LogLevel).Build()
	}
	if c.LogFormat != "" && config.NormalizeLogFormat(c.LogFormat) == "" {
		return ferrors.ValidationError("unknown log format").WithContext("format", c.LogFormat).Build()
	}
	c.configureLogging(g, config.LoggingConfig{})
	return nil
}

// configureLogging installs the logger. Flags win over the configuration;
// --quiet keeps errors only unless --verbose is also set.
func (c *CLI) configureLogging(g *Global, lc config.LoggingConfig) {
	level := lc.Level
	if c.LogLevel != "" {
		level = config.NormalizeLogLevel(c.LogLevel)
	}
	lvl := level.SlogLevel()
	switch {
	case c.Verbose:
		lvl = slog.LevelDebug
	case c.Quiet:
		lvl = slog.LevelError
	}

	format := lc.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(c.stderr, opts)
	} else {
		handler = slog.NewTextHandler(c.stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
}

// loadConfig loads the configuration file, applies command-line overrides
// and reconfigures logging from the result.
func (c *CLI) loadConfig(g *Global, o config.Overrides) (*config.Config, error) {
	base, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	cfg := config.Merge(base, o)
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	c.configureLogging(g, cfg.Logging)
	return cfg, nil
}

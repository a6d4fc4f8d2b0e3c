package config

import (
	"log/slog"

	"git.home.luguber.info/inful/codedoc/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel maps user input to a LogLevel; unknown input is "".
func NormalizeLogLevel(raw string) LogLevel {
	lvl, err := logLevelNormalizer.NormalizeWithError(raw)
	if err != nil {
		return ""
	}
	return lvl
}

// SlogLevel converts the level for slog.HandlerOptions.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NormalizeLogFormat maps user input to a LogFormat; unknown input is "".
func NormalizeLogFormat(raw string) LogFormat {
	f, err := logFormatNormalizer.NormalizeWithError(raw)
	if err != nil {
		return ""
	}
	return f
}

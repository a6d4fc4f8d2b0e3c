package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/foundation/normalization"
)

// NormalizationResult captures adjustments and warnings from normalization.
type NormalizationResult struct{ Warnings []string }

func (r *NormalizationResult) changed(field string, from, to any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to))
}

func (r *NormalizationResult) unknown(field, value, def string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def))
}

// NormalizeConfig canonicalizes enumerations and format keys in place.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}
	normalizeLogging(&c.Logging, res)
	normalizeRetry(&c.Publish.Retry, res)
	normalizeFormats(c, res)
	c.Defaults.Encoding = strings.TrimSpace(c.Defaults.Encoding)
	c.Defaults.Tags = trimStrings(c.Defaults.Tags)
	c.Defaults.Exclude = trimStrings(c.Defaults.Exclude)
	return res
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := string(l.Level); strings.TrimSpace(raw) != "" {
		if lvl := NormalizeLogLevel(raw); lvl == "" {
			res.unknown("logging.level", raw, string(LogLevelInfo))
			l.Level = LogLevelInfo
		} else if lvl != l.Level {
			res.changed("logging.level", l.Level, lvl)
			l.Level = lvl
		}
	}
	if raw := string(l.Format); strings.TrimSpace(raw) != "" {
		if f := NormalizeLogFormat(raw); f == "" {
			res.unknown("logging.format", raw, string(LogFormatText))
			l.Format = LogFormatText
		} else if f != l.Format {
			res.changed("logging.format", l.Format, f)
			l.Format = f
		}
	}
}

func normalizeRetry(r *RetryConfig, res *NormalizationResult) {
	raw := string(r.Backoff)
	if strings.TrimSpace(raw) == "" {
		return
	}
	if mode := NormalizeRetryBackoff(raw); mode == "" {
		res.unknown("publish.retry.backoff", raw, string(RetryBackoffExponential))
		r.Backoff = RetryBackoffExponential
	} else if mode != r.Backoff {
		res.changed("publish.retry.backoff", r.Backoff, mode)
		r.Backoff = mode
	}
}

// normalizeFormats rewrites format keys so ".JSON" and "json" name the same entry.
func normalizeFormats(c *Config, res *NormalizationResult) {
	if len(c.Formats) == 0 {
		return
	}
	out := make(map[string]FormatConfig, len(c.Formats))
	for raw, f := range c.Formats {
		key := normalization.Key(raw)
		if key != raw {
			res.changed("formats key", raw, key)
		}
		f.Highlight = strings.ToLower(strings.TrimSpace(f.Highlight))
		out[key] = f
	}
	c.Formats = out
}

func trimStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar"

	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/foundation"
)

// ValidateConfig checks a configuration after defaults were applied and
// reports every problem at once.
func ValidateConfig(cfg *Config) error {
	return foundation.NewValidatorChain(
		validateDefaults,
		validateFormats,
		validatePublish,
		validateLogging,
	).Validate(cfg).ToError()
}

func validateDefaults(cfg *Config) foundation.ValidationResult {
	d := cfg.Defaults
	res := foundation.NonNegative[int64]("defaults.max_file_size")(d.MaxFileSize).
		Combine(foundation.NonNegative[int]("defaults.max_lines")(d.MaxLines)).
		Combine(foundation.NonNegative[int]("defaults.workers")(d.Workers)).
		Combine(foundation.InRange("defaults.indent", 1, MaxIndent)(d.Indent))

	for i, pattern := range d.Exclude {
		if !validPattern(pattern) {
			res = res.Combine(foundation.Invalid(foundation.NewFieldError(
				fmt.Sprintf("defaults.exclude[%d]", i), "pattern", "invalid glob pattern", pattern)))
		}
	}
	return res
}

func validateFormats(cfg *Config) foundation.ValidationResult {
	res := foundation.Valid()
	for key, f := range cfg.Formats {
		field := "formats." + key
		if key == "" {
			res = res.Combine(foundation.Invalid(foundation.NewFieldError("formats", "empty_key", "format key must not be empty", nil)))
			continue
		}
		if _, err := format.ParseCategory(f.Category); err != nil {
			res = res.Combine(foundation.Invalid(foundation.NewFieldError(field+".category", "one_of", err.Error(), f.Category)))
		}
	}
	return res
}

func validatePublish(cfg *Config) foundation.ValidationResult {
	p := cfg.Publish
	if !p.Enabled() {
		return foundation.Valid()
	}
	res := foundation.Valid()
	if p.Subject == "" {
		res = res.Combine(foundation.Invalid(foundation.NewFieldError("publish.subject", "required", "subject is required when nats_url is set", nil)))
	}
	if p.Retry.Initial > p.Retry.Max {
		res = res.Combine(foundation.Invalid(foundation.NewFieldError("publish.retry.initial", "range", "initial delay exceeds max delay", p.Retry.Initial.String())))
	}
	return res
}

func validateLogging(cfg *Config) foundation.ValidationResult {
	return foundation.OneOf("logging.level", []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError})(cfg.Logging.Level).
		Combine(foundation.OneOf("logging.format", []LogFormat{LogFormatText, LogFormatJSON})(cfg.Logging.Format))
}

// validPattern checks each path component of a doublestar pattern. Matching a
// component against itself walks its whole syntax.
func validPattern(pattern string) bool {
	for _, part := range strings.Split(pattern, "/") {
		if part == "**" {
			continue
		}
		if _, err := doublestar.Match(part, part); err != nil {
			return false
		}
	}
	return true
}

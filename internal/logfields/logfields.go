package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile       = "file"
	KeyFormat     = "format"
	KeyCategory   = "category"
	KeyStage      = "stage"
	KeyEncoding   = "encoding"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
	KeyRunID      = "run_id"
	KeyOutput     = "output"
	KeySize       = "size"
	KeyCount      = "count"
	KeySubject    = "subject"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Format(key string) slog.Attr     { return slog.String(KeyFormat, key) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Encoding(name string) slog.Attr  { return slog.String(KeyEncoding, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Output(path string) slog.Attr    { return slog.String(KeyOutput, path) }
func Size(n int64) slog.Attr          { return slog.Int64(KeySize, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }

// Since reports the elapsed time since start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package processor

import (
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
)

// Statistic keys shared by every processor.
const (
	StatLineCount         = "line_count"
	StatBlankLineCount    = "blank_line_count"
	StatNonBlankLineCount = "non_blank_line_count"
	StatIsValid           = "is_valid"
)

// Statistics holds named metrics. Keys are snake_case so templates can
// address them directly, e.g. {{ .processed_data.statistics.line_count }}.
type Statistics map[string]any

// Int returns an integer statistic, or 0 when absent.
func (s Statistics) Int(key string) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// String returns a string statistic, or "" when absent.
func (s Statistics) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Result is the output of processing one decoded text.
type Result struct {
	Category format.Category
	// NormalizedText is the pretty-printed form for valid structured data and
	// the input text otherwise.
	NormalizedText   string
	Statistics       Statistics
	ValidationErrors []string
}

// IsValid reports the is_valid statistic.
func (r Result) IsValid() bool {
	v, ok := r.Statistics[StatIsValid].(bool)
	return ok && v
}

// Processor turns decoded text into a Result for one descriptor.
// Implementations never fail; problems with the input are reported as data.
type Processor interface {
	Process(text string, d format.Descriptor) Result
}

// lineStatistics computes the counts every category reports.
func lineStatistics(text string) Statistics {
	total := content.CountLines(text)
	blank := 0
	if total > 0 {
		for _, line := range splitLines(text) {
			if strings.TrimSpace(line) == "" {
				blank++
			}
		}
	}
	return Statistics{
		StatLineCount:         total,
		StatBlankLineCount:    blank,
		StatNonBlankLineCount: total - blank,
		StatIsValid:           true,
	}
}

// splitLines splits text into lines, ignoring a single trailing newline so
// the result agrees with content.CountLines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

package processor

import (
	"math"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/format"
)

// Code statistic keys.
const (
	StatCommentLineCount  = "comment_line_count"
	StatFunctionCount     = "function_count"
	StatClassCount        = "class_count"
	StatImportCount       = "import_count"
	StatCommentPercentage = "comment_percentage"
	StatLanguage          = "language"
	StatDocstringBlocks   = "docstring_blocks"
)

// Code reports heuristic statistics for source code. The text is returned
// unchanged and validation never fails.
type Code struct{}

func (Code) Process(text string, d format.Descriptor) Result {
	stats := lineStatistics(text)
	lang := d.Highlight
	if lang == "" {
		lang = "text"
	}
	stats[StatLanguage] = lang

	counts := codeCounts{}
	l, known := lookupLanguage(d.Highlight)
	if known {
		counts = scanCode(text, l)
	}

	stats[StatCommentLineCount] = counts.comments
	stats[StatFunctionCount] = counts.functions
	stats[StatClassCount] = counts.classes
	stats[StatImportCount] = counts.imports
	stats[StatCommentPercentage] = percentage(counts.comments, stats.Int(StatNonBlankLineCount))
	if known && l.docstrings {
		stats[StatDocstringBlocks] = counts.docstrings
	}
	if d.Highlight == "html" {
		htmlStatistics(text, stats)
	}

	return Result{
		Category:         d.Category,
		NormalizedText:   text,
		Statistics:       stats,
		ValidationErrors: []string{},
	}
}

type codeCounts struct {
	comments   int
	functions  int
	classes    int
	imports    int
	docstrings int
}

// scanCode walks non-blank lines once. Lines inside or opening a block
// comment and lines starting with a line-comment prefix count as comments;
// the remaining lines are matched against the import, function and class
// patterns.
func scanCode(text string, l *language) codeCounts {
	var c codeCounts
	var open *blockDelim

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if open != nil {
			c.comments++
			if strings.Contains(line, open.end) {
				open = nil
			}
			continue
		}

		if b := blockOpening(line, l.blocks); b != nil {
			c.comments++
			if l.docstrings {
				c.docstrings++
			}
			if !strings.Contains(line[len(b.start):], b.end) {
				open = b
			}
			continue
		}

		if hasAnyPrefix(line, l.lineComments) {
			c.comments++
			continue
		}

		switch {
		case matches(l.imports, line):
			c.imports++
		case matches(l.classes, line):
			c.classes++
		case matches(l.functions, line) && !matches(l.notFunction, line):
			c.functions++
		}
	}
	return c
}

func blockOpening(line string, blocks []blockDelim) *blockDelim {
	for i := range blocks {
		if strings.HasPrefix(line, blocks[i].start) {
			return &blocks[i]
		}
	}
	return nil
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func matches(re *regexp.Regexp, line string) bool {
	return re != nil && re.MatchString(line)
}

// percentage returns part/total*100 rounded to one decimal place.
func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

package processor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/codedoc/internal/format"
)

// Structured-data statistic keys.
const (
	StatFormat        = "format"
	StatTopLevelCount = "top_level_count"
	StatMaxDepth      = "max_depth"
	StatLeafCount     = "leaf_count"
	StatRootKind      = "root_kind"
)

// Root kinds reported under root_kind.
const (
	KindObject = "object"
	KindArray  = "array"
	KindScalar = "scalar"
)

// parsed is what a syntax parser hands back to Structured.
type parsed struct {
	normalized string
	stats      Statistics
	errs       []string
}

// parser validates text and renders it with indent spaces per nesting level.
type parser func(text string, indent int) parsed

// parsers is keyed by descriptor highlight tag.
var parsers = map[string]parser{
	"json":       parseJSON,
	"xml":        parseXML,
	"yaml":       parseYAML,
	"toml":       parseTOML,
	"ini":        parseINI,
	"properties": parseProperties,
}

// DefaultIndent is the pretty-print width used when Structured.Indent is
// not positive.
const DefaultIndent = 2

// Structured validates and pretty-prints structured data. Malformed input is
// reported through ValidationErrors with the original text kept; Process
// never fails and never panics.
type Structured struct {
	// Indent is the number of spaces per nesting level for JSON, YAML and
	// XML output.
	Indent int
}

func (s Structured) Process(text string, d format.Descriptor) Result {
	stats := lineStatistics(text)
	stats[StatFormat] = d.Highlight

	parse, ok := parsers[d.Highlight]
	if !ok {
		return Result{
			Category:         d.Category,
			NormalizedText:   text,
			Statistics:       stats,
			ValidationErrors: []string{},
		}
	}

	indent := s.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	p := safeParse(parse, text, indent)
	if len(p.errs) > 0 {
		stats[StatIsValid] = false
		return Result{
			Category:         d.Category,
			NormalizedText:   text,
			Statistics:       stats,
			ValidationErrors: p.errs,
		}
	}

	for k, v := range p.stats {
		stats[k] = v
	}
	stats[StatIsValid] = true
	return Result{
		Category:         d.Category,
		NormalizedText:   p.normalized,
		Statistics:       stats,
		ValidationErrors: []string{},
	}
}

func safeParse(parse parser, text string, indent int) (p parsed) {
	defer func() {
		if r := recover(); r != nil {
			p = parsed{errs: []string{fmt.Sprintf("parser failure: %v", r)}}
		}
	}()
	return parse(text, indent)
}

// shape accumulates structural statistics while walking a document.
type shape struct {
	top    int
	depth  int
	leaves int
	kind   string
}

func (s shape) statistics() Statistics {
	return Statistics{
		StatTopLevelCount: s.top,
		StatMaxDepth:      s.depth,
		StatLeafCount:     s.leaves,
		StatRootKind:      s.kind,
	}
}

func (s *shape) enter(level int) {
	if level > s.depth {
		s.depth = level
	}
}

// walkValue walks decoded Go values (maps, slices, scalars). Containers add
// one level of depth; the root container is level 1.
func walkValue(v any, level int, s *shape) {
	switch vv := v.(type) {
	case map[string]any:
		s.enter(level)
		for _, child := range vv {
			walkValue(child, level+1, s)
		}
	case []map[string]any:
		s.enter(level)
		for _, child := range vv {
			walkValue(child, level+1, s)
		}
	case []any:
		s.enter(level)
		for _, child := range vv {
			walkValue(child, level+1, s)
		}
	default:
		s.leaves++
	}
}

// position formats a 1-based line and column prefix for validation messages.
func position(line, col int, msg string) string {
	switch {
	case line > 0 && col > 0:
		return fmt.Sprintf("line %d, column %d: %s", line, col, msg)
	case line > 0:
		return fmt.Sprintf("line %d: %s", line, msg)
	default:
		return msg
	}
}

// lineCol converts a byte offset into a 1-based line and rune column.
func lineCol(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	start := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[start:]) + 1
}

// lineOf returns the 1-based number of the first line whose trimmed content
// equals fragment, or 0.
func lineOf(text, fragment string) int {
	want := strings.TrimSpace(fragment)
	if want == "" {
		return 0
	}
	for i, line := range splitLines(text) {
		if strings.TrimSpace(line) == want {
			return i + 1
		}
	}
	return 0
}

// ensureTrailingNewline terminates non-empty text with exactly one newline.
func ensureTrailingNewline(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	return s + "\n"
}

package processor

import (
	"bytes"
	"errors"
	"strings"

	"github.com/go-ini/ini"
)

// INI statistic keys.
const (
	StatSectionCount = "section_count"
	StatSections     = "sections"
)

var (
	iniOptions = ini.LoadOptions{
		SpaceBeforeInlineComment: true,
		PreserveSurroundedQuote:  true,
	}
	// Java properties have no inline comments; '#' inside a value is data.
	propertiesOptions = ini.LoadOptions{
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}
)

// INI and properties output has no nesting, so indent is unused.
func parseINI(text string, _ int) parsed        { return parseKeyValue(text, iniOptions) }
func parseProperties(text string, _ int) parsed { return parseKeyValue(text, propertiesOptions) }

func parseKeyValue(text string, opts ini.LoadOptions) parsed {
	f, err := ini.LoadSources(opts, []byte(text))
	if err != nil {
		return parsed{errs: []string{iniError(text, err)}}
	}

	var (
		names       []string
		keys        int
		defaultKeys int
		named       int
	)
	for _, sec := range f.Sections() {
		n := len(sec.Keys())
		if sec.Name() == ini.DefaultSection {
			if n == 0 {
				continue
			}
			defaultKeys = n
		} else {
			named++
		}
		names = append(names, sec.Name())
		keys += n
	}

	depth := 0
	switch {
	case named > 0:
		depth = 2
	case keys > 0:
		depth = 1
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return parsed{errs: []string{err.Error()}}
	}

	if names == nil {
		names = []string{}
	}
	return parsed{
		normalized: ensureTrailingNewline(buf.String()),
		stats: Statistics{
			StatTopLevelCount: defaultKeys + named,
			StatMaxDepth:      depth,
			StatLeafCount:     keys,
			StatRootKind:      KindObject,
			StatSectionCount:  named,
			StatKeyCount:      keys,
			StatSections:      names,
		},
	}
}

// iniError attaches the line number go-ini leaves out of its messages.
func iniError(text string, err error) string {
	var fragment string
	var delim ini.ErrDelimiterNotFound
	var empty ini.ErrEmptyKeyName
	switch {
	case errors.As(err, &delim):
		fragment = delim.Line
	case errors.As(err, &empty):
		fragment = empty.Line
	default:
		if _, after, ok := strings.Cut(err.Error(), "unclosed section: "); ok {
			fragment = after
		}
	}
	return position(lineOf(text, fragment), 0, err.Error())
}

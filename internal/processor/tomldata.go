package processor

import (
	"errors"

	"github.com/BurntSushi/toml"
)

// StatKeyCount is the number of keys, including keys of nested tables.
const StatKeyCount = "key_count"

func parseTOML(text string, _ int) parsed {
	var doc map[string]any
	md, err := toml.Decode(text, &doc)
	if err != nil {
		return parsed{errs: []string{tomlError(err)}}
	}

	s := shape{kind: KindObject, top: len(doc)}
	walkValue(doc, 1, &s)
	if len(doc) == 0 {
		s.depth = 0
	}

	stats := s.statistics()
	stats[StatKeyCount] = len(md.Keys())

	// No order-preserving TOML encoder exists, so the canonical form is the
	// validated source itself. Whitespace inside multi-line strings is data.
	return parsed{normalized: ensureTrailingNewline(text), stats: stats}
}

func tomlError(err error) string {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return position(perr.Position.Line, perr.Position.Col, perr.Message)
	}
	return err.Error()
}

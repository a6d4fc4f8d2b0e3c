package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

func parseJSON(text string, indent int) parsed {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", strings.Repeat(" ", indent)); err != nil {
		return parsed{errs: []string{jsonError(text, err)}}
	}

	s, err := jsonShape(text)
	if err != nil {
		return parsed{errs: []string{err.Error()}}
	}
	return parsed{
		normalized: ensureTrailingNewline(strings.TrimRight(buf.String(), " \t\r\n")),
		stats:      s.statistics(),
	}
}

func jsonError(text string, err error) string {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		// Offset counts the bytes read before the error was detected.
		off := int(syntax.Offset) - 1
		if syntax.Offset >= int64(len(text)) {
			off = len(strings.TrimRight(text, " \t\r\n"))
		}
		line, col := lineCol(text, off)
		return position(line, col, syntax.Error())
	}
	return err.Error()
}

// jsonShape walks the token stream so object key order and number literals
// are never disturbed by decoding into maps.
func jsonShape(text string) (shape, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return shape{}, err
	}

	var s shape
	delim, isContainer := tok.(json.Delim)
	if !isContainer {
		s.kind = KindScalar
		s.top = 1
		s.leaves = 1
		return s, nil
	}

	s.kind = KindObject
	if delim == '[' {
		s.kind = KindArray
	}
	n, err := walkJSON(dec, delim, 1, &s)
	if err != nil {
		return shape{}, err
	}
	s.top = n
	return s, nil
}

// walkJSON consumes the members of the container opened by delim and returns
// how many direct members it had.
func walkJSON(dec *json.Decoder, delim json.Delim, level int, s *shape) (int, error) {
	s.enter(level)
	count := 0
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return 0, err
			}
		}
		tok, err := dec.Token()
		if err != nil {
			return 0, err
		}
		if child, ok := tok.(json.Delim); ok {
			if _, err := walkJSON(dec, child, level+1, s); err != nil {
				return 0, err
			}
		} else {
			s.leaves++
		}
		count++
	}
	if _, err := dec.Token(); err != nil {
		return 0, err
	}
	return count, nil
}

package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from a Markdown body.
//
// Input is expected to be sanitized text with LF line endings. If the document
// does not start with a delimiter line, had is false and body is the full input.
func Split(content string) (frontmatter string, body string, had bool, err error) {
	open := delimiter + "\n"
	if !strings.HasPrefix(content, open) {
		return "", content, false, nil
	}

	rest := content[len(open):]
	if strings.HasPrefix(rest, open) {
		return "", rest[len(open):], true, nil
	}

	closeSeq := "\n" + delimiter + "\n"
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		if before, ok := strings.CutSuffix(rest, "\n"+delimiter); ok {
			return before + "\n", "", true, nil
		}
		return "", content, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+1], rest[idx+len(closeSeq):], true, nil
}

// Join emits a document made of a `---` delimited YAML block and body.
// An empty frontmatter yields the body unchanged.
func Join(frontmatter string, body string) string {
	if frontmatter == "" {
		return body
	}
	var sb strings.Builder
	sb.Grow(len(frontmatter) + len(body) + 8)
	sb.WriteString(delimiter)
	sb.WriteByte('\n')
	sb.WriteString(frontmatter)
	if !strings.HasSuffix(frontmatter, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(delimiter)
	sb.WriteByte('\n')
	sb.WriteString(body)
	return sb.String()
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter string) (map[string]any, error) {
	if strings.TrimSpace(frontmatter) == "" {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(frontmatter), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Keys returns the top-level keys of a YAML frontmatter block in document order.
func Keys(frontmatter string) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(frontmatter), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return []string{}, nil
	}
	m := doc.Content[0]
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys, nil
}

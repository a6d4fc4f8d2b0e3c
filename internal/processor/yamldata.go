package processor

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML statistic keys.
const (
	StatDocumentCount = "document_count"
	StatDocuments     = "documents"
	StatKind          = "kind"
)

var yamlLinePrefix = regexp.MustCompile(`^yaml: line (\d+): `)

func parseYAML(text string, indent int) parsed {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return parsed{errs: []string{yamlError(err)}}
		}
		// Duplicate keys only surface when decoding into Go values.
		var v any
		if err := doc.Decode(&v); err != nil {
			return parsed{errs: []string{yamlError(err)}}
		}
		docs = append(docs, &doc)
	}

	if len(docs) == 0 {
		return parsed{
			normalized: text,
			stats: Statistics{
				StatTopLevelCount: 0,
				StatMaxDepth:      0,
				StatLeafCount:     0,
				StatRootKind:      KindScalar,
				StatDocumentCount: 0,
				StatDocuments:     []map[string]any{},
			},
		}
	}

	stats := yamlStatistics(docs)
	// Bare document markers encode to nothing, which would re-parse as zero
	// documents.
	if allEmpty(docs) {
		return parsed{normalized: ensureTrailingNewline(text), stats: stats}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			_ = enc.Close()
			return parsed{errs: []string{err.Error()}}
		}
	}
	if err := enc.Close(); err != nil {
		return parsed{errs: []string{err.Error()}}
	}

	return parsed{normalized: ensureTrailingNewline(buf.String()), stats: stats}
}

func allEmpty(docs []*yaml.Node) bool {
	for _, doc := range docs {
		if doc.Kind != yaml.DocumentNode || len(doc.Content) > 0 {
			return false
		}
	}
	return true
}

func yamlStatistics(docs []*yaml.Node) Statistics {
	var total shape
	perDoc := make([]map[string]any, 0, len(docs))
	for i, doc := range docs {
		s := yamlShape(doc)
		if i == 0 {
			total.kind = s.kind
		}
		total.top += s.top
		total.leaves += s.leaves
		if s.depth > total.depth {
			total.depth = s.depth
		}
		perDoc = append(perDoc, map[string]any{
			StatTopLevelCount: s.top,
			StatMaxDepth:      s.depth,
			StatLeafCount:     s.leaves,
			StatKind:          s.kind,
		})
	}

	stats := total.statistics()
	stats[StatDocumentCount] = len(docs)
	stats[StatDocuments] = perDoc
	return stats
}

// yamlError rewrites "yaml: line N: msg" as "line N: msg".
func yamlError(err error) string {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return strings.Join(typeErr.Errors, "; ")
	}
	msg := err.Error()
	if m := yamlLinePrefix.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return position(line, 0, msg[len(m[0]):])
	}
	return strings.TrimPrefix(msg, "yaml: ")
}

func yamlShape(doc *yaml.Node) shape {
	var s shape
	root := doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return shape{kind: KindScalar}
		}
		root = doc.Content[0]
	}

	switch root.Kind {
	case yaml.MappingNode:
		s.kind = KindObject
		s.top = len(root.Content) / 2
	case yaml.SequenceNode:
		s.kind = KindArray
		s.top = len(root.Content)
	default:
		s.kind = KindScalar
		s.top = 1
	}
	walkYAML(root, 1, &s)
	return s
}

func walkYAML(n *yaml.Node, level int, s *shape) {
	switch n.Kind {
	case yaml.MappingNode:
		s.enter(level)
		for i := 1; i < len(n.Content); i += 2 {
			walkYAML(n.Content[i], level+1, s)
		}
	case yaml.SequenceNode:
		s.enter(level)
		for _, child := range n.Content {
			walkYAML(child, level+1, s)
		}
	default:
		// Scalars and aliases are leaves; aliases are not followed.
		s.leaves++
	}
}

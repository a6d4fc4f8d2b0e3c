package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SerializeYAML serializes a frontmatter map into YAML (without delimiters).
//
// Top-level keys named in order come first, in that order; the remaining keys
// follow sorted. Nested maps are always sorted so output is deterministic.
// An empty map yields an empty string.
func SerializeYAML(fields map[string]any, order []string) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	node, err := nodeFromStringMap(fields, order)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render serializes fields and wraps them in `---` delimiters.
func Render(fields map[string]any, order []string) (string, error) {
	yml, err := SerializeYAML(fields, order)
	if err != nil {
		return "", err
	}
	return Join(yml, ""), nil
}

func orderedKeys(m map[string]any, order []string) []string {
	keys := make([]string, 0, len(m))
	placed := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := m[k]; ok && !placed[k] {
			keys = append(keys, k)
			placed[k] = true
		}
	}
	rest := make([]string, 0, len(m)-len(keys))
	for k := range m {
		if !placed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func nodeFromStringMap(m map[string]any, order []string) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range orderedKeys(m, order) {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode, err := nodeFromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		n.Content = append(n.Content, keyNode, valNode)
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func nodeFromAny(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case string:
		return scalar("!!str", vv), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(vv)), nil
	case int:
		return scalar("!!int", strconv.Itoa(vv)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(vv, 10)), nil
	case float64:
		return scalar("!!float", formatFloat(vv)), nil
	case map[string]any:
		return nodeFromStringMap(vv, nil)
	case []map[string]any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := nodeFromStringMap(item, nil)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := nodeFromAny(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, scalar("!!str", item))
		}
		return seq, nil
	default:
		// Fall back to yaml's own encoding for uncommon types.
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return &node, nil
	}
}

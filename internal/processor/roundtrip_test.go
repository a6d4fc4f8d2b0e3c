package processor

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/go-ini/ini"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// requireSameData normalizes src and checks that decoding the normalized
// text yields the same data as decoding src.
func requireSameData(t *testing.T, highlight, src string, decode func(*testing.T, string) any) Result {
	t.Helper()
	res := Structured{}.Process(src, structured(highlight))
	require.True(t, res.IsValid(), res.ValidationErrors)
	require.Equal(t, decode(t, src), decode(t, res.NormalizedText), res.NormalizedText)
	return res
}

func decodeJSON(t *testing.T, text string) any {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func decodeYAML(t *testing.T, text string) any {
	dec := yaml.NewDecoder(strings.NewReader(text))
	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs
		}
		require.NoError(t, err)
		docs = append(docs, v)
	}
}

func decodeTOML(t *testing.T, text string) any {
	var v map[string]any
	_, err := toml.Decode(text, &v)
	require.NoError(t, err)
	return v
}

func decodeKeyValue(opts ini.LoadOptions) func(*testing.T, string) any {
	return func(t *testing.T, text string) any {
		f, err := ini.LoadSources(opts, []byte(text))
		require.NoError(t, err)
		out := map[string]map[string]string{}
		for _, sec := range f.Sections() {
			out[sec.Name()] = sec.KeysHash()
		}
		return out
	}
}

// decodeXML returns the element tree with whitespace between child elements
// dropped and all other character data kept.
func decodeXML(t *testing.T, text string) any {
	w := &xmlWalk{dec: xml.NewDecoder(strings.NewReader(text)), namespaces: map[string]struct{}{}}
	w.dec.Strict = true
	require.NoError(t, w.run())
	return xmlData(w.root)
}

func xmlData(n *xmlNode) any {
	switch n.kind {
	case xmlText:
		return n.text
	case xmlMarkup:
		return "markup " + n.text
	}
	children := []any{}
	block := n.block()
	for _, c := range n.children {
		if block && c.kind == xmlText {
			continue
		}
		children = append(children, xmlData(c))
	}
	return map[string]any{"name": n.name, "attrs": n.attrs, "children": children}
}

func TestRoundTripJSON(t *testing.T) {
	requireSameData(t, "json",
		`{"s":"two\nlines  ","q":"say \"hi\"","n":[1.50,-0,1e3,{"k":"ü\u00e9"}],"e":{},"z":[]}`,
		decodeJSON)
}

func TestRoundTripYAMLMultiDocument(t *testing.T) {
	src := "a: |\n    keep  \n    lines\nb: 'quoted: yes'\nc: \"tab\\there\"\n---\n- >\n  folded\n  text\n- [1, \"2\"]\n---\nplain\n"
	res := requireSameData(t, "yaml", src, decodeYAML)
	require.Equal(t, 3, res.Statistics.Int(StatDocumentCount))
}

func TestRoundTripTOMLMultiLineString(t *testing.T) {
	res := requireSameData(t, "toml", "s = \"\"\"\nkeep   \nme\"\"\"\n", decodeTOML)
	require.Equal(t, "s = \"\"\"\nkeep   \nme\"\"\"\n", res.NormalizedText)

	requireSameData(t, "toml",
		"'lit key' = 'C:\\path  '\nraw = '''\ntrailing  \t\n'''\n[t]\nv = \"a \\\"b\\\"\"   \n",
		decodeTOML)
}

func TestRoundTripINIQuotedValues(t *testing.T) {
	requireSameData(t, "ini",
		"top = 1\n[s]\nq = \"  padded  \"\nk = v ; note\nsingle = 'x'\n",
		decodeKeyValue(iniOptions))
	requireSameData(t, "properties",
		"a = x # not a comment\nb=\"quoted\"\n",
		decodeKeyValue(propertiesOptions))
}

func TestRoundTripXML(t *testing.T) {
	src := "<doc a=\"x&#10;y\">\n<p>Hello <b>World</b> !</p><q>  spaced  </q>\n<!-- c --><r><![CDATA[<raw>]]></r></doc>"
	requireSameData(t, "xml", src, decodeXML)
}

func TestStructuredXMLMixedContent(t *testing.T) {
	d := structured("xml")
	res := Structured{}.Process("<doc><p>Hello <b>World</b> !</p></doc>", d)
	require.True(t, res.IsValid(), res.ValidationErrors)
	require.Equal(t, "<doc>\n  <p>Hello <b>World</b> !</p>\n</doc>\n", res.NormalizedText)
	requireIdempotent(t, res, d)
}

func TestStructuredXMLInternalEntities(t *testing.T) {
	d := structured("xml")
	src := `<?xml version="1.0"?><!DOCTYPE a [<!ENTITY e "v"><!ENTITY q 'w'><!ENTITY % p "x">]><a>&e;&q;</a>`
	res := Structured{}.Process(src, d)
	require.True(t, res.IsValid(), res.ValidationErrors)
	require.Equal(t, `<?xml version="1.0"?>
<!DOCTYPE a [<!ENTITY e "v"><!ENTITY q 'w'><!ENTITY % p "x">]>
<a>vw</a>
`, res.NormalizedText)
	requireIdempotent(t, res, d)

	res = requireInvalid(t, `<!DOCTYPE a [<!ENTITY % p "x">]><a>&p;</a>`, d)
	require.Contains(t, res.ValidationErrors[0], "&p;")
}

func TestStructuredIndentWidth(t *testing.T) {
	wide := Structured{Indent: 4}

	res := wide.Process(`{"a":[1]}`, structured("json"))
	require.Equal(t, "{\n    \"a\": [\n        1\n    ]\n}\n", res.NormalizedText)

	res = wide.Process("a:\n  - x\n", structured("yaml"))
	require.Equal(t, "a:\n    - x\n", res.NormalizedText)

	res = wide.Process("<a><b><c/></b></a>", structured("xml"))
	require.Equal(t, "<a>\n    <b>\n        <c></c>\n    </b>\n</a>\n", res.NormalizedText)
}

func TestStructuredYAMLBareDocumentMarker(t *testing.T) {
	d := structured("yaml")
	res := Structured{}.Process("---\n", d)
	require.True(t, res.IsValid(), res.ValidationErrors)
	require.Equal(t, "---\n", res.NormalizedText)
	require.Equal(t, 1, res.Statistics.Int(StatDocumentCount))

	again := Structured{}.Process(res.NormalizedText, d)
	require.Equal(t, 1, again.Statistics.Int(StatDocumentCount))
}

package processor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// XML statistic keys.
const (
	StatRootTag        = "root_tag"
	StatElementCount   = "element_count"
	StatAttributeCount = "attribute_count"
	StatNamespaces     = "namespaces"
)

// entityDecl matches internal general entities in a DOCTYPE subset.
// Parameter and external entities are not matched.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"'>]+)\s+("[^"]*"|'[^']*')\s*>`)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;",
	)
)

// rawName renders a raw (unresolved) name with its prefix.
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

type xmlKind int

const (
	xmlElement xmlKind = iota
	xmlText
	xmlMarkup
)

// xmlNode is one node of the element tree. Markup nodes hold comments,
// processing instructions and directives already rendered.
type xmlNode struct {
	kind     xmlKind
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     string
	elements int
}

// block reports whether n has markup children and no character data besides
// whitespace between them. Such elements are re-indented; all others keep
// their content exactly.
func (n *xmlNode) block() bool {
	markup := false
	for _, c := range n.children {
		if c.kind == xmlText {
			if !isXMLSpace(c.text) {
				return false
			}
			continue
		}
		markup = true
	}
	return markup
}

func isXMLSpace(s string) bool {
	return strings.Trim(s, " \t\r\n") == ""
}

type xmlWalk struct {
	dec        *xml.Decoder
	stack      []*xmlNode
	root       *xmlNode
	roots      int
	elements   int
	attributes int
	leaves     int
	depth      int
	namespaces map[string]struct{}
	// prolog and epilog hold markup outside the root element, one item per
	// line.
	prolog, epilog strings.Builder
}

func parseXML(text string, indent int) parsed {
	w := &xmlWalk{
		dec:        xml.NewDecoder(strings.NewReader(text)),
		namespaces: map[string]struct{}{},
	}
	w.dec.Strict = true

	if err := w.run(); err != nil {
		return parsed{errs: []string{err.Error()}}
	}

	var out strings.Builder
	out.WriteString(w.prolog.String())
	writeXML(&out, w.root, strings.Repeat(" ", indent), 0)
	out.WriteString(w.epilog.String())

	nss := make([]string, 0, len(w.namespaces))
	for ns := range w.namespaces {
		nss = append(nss, ns)
	}
	sort.Strings(nss)

	return parsed{
		normalized: out.String(),
		stats: Statistics{
			StatTopLevelCount:  w.root.elements,
			StatMaxDepth:       w.depth,
			StatLeafCount:      w.leaves,
			StatRootKind:       KindObject,
			StatRootTag:        w.root.name,
			StatElementCount:   w.elements,
			StatAttributeCount: w.attributes,
			StatNamespaces:     nss,
		},
	}
}

func (w *xmlWalk) fail(msg string) error {
	line, col := w.dec.InputPos()
	return errors.New(position(line, col, msg))
}

func (w *xmlWalk) run() error {
	for {
		tok, err := w.dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			var syntax *xml.SyntaxError
			if errors.As(err, &syntax) {
				return errors.New(position(syntax.Line, 0, syntax.Msg))
			}
			return w.fail(err.Error())
		}

		switch t := xml.CopyToken(tok).(type) {
		case xml.StartElement:
			if err := w.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			if err := w.end(t); err != nil {
				return err
			}
		case xml.CharData:
			if len(w.stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return w.fail("character data outside the root element")
				}
				continue
			}
			w.appendText(string(t))
		case xml.ProcInst, xml.Comment, xml.Directive:
			if err := w.misc(t); err != nil {
				return err
			}
		}
	}

	switch {
	case len(w.stack) > 0:
		return w.fail(fmt.Sprintf("element <%s> is never closed", w.stack[len(w.stack)-1].name))
	case w.roots == 0:
		return w.fail("no root element")
	}
	return nil
}

// appendText merges adjacent character data, which the decoder splits at
// CDATA boundaries.
func (w *xmlWalk) appendText(s string) {
	parent := w.stack[len(w.stack)-1]
	if n := len(parent.children); n > 0 && parent.children[n-1].kind == xmlText {
		parent.children[n-1].text += s
		return
	}
	parent.children = append(parent.children, &xmlNode{kind: xmlText, text: s})
}

// misc places processing instructions, comments and directives. Inside the
// root they become markup nodes; outside it they are written on their own
// lines before or after the element tree.
func (w *xmlWalk) misc(t xml.Token) error {
	var markup string
	switch t := t.(type) {
	case xml.ProcInst:
		if t.Target == "xml" && (w.roots > 0 || len(w.stack) > 0 || w.prolog.Len() > 0) {
			return w.fail("xml declaration must be the first token")
		}
		markup = "<?" + t.Target
		if inst := strings.TrimSpace(string(t.Inst)); inst != "" {
			markup += " " + inst
		}
		markup += "?>"
	case xml.Comment:
		markup = "<!--" + string(t) + "-->"
	case xml.Directive:
		if w.roots == 0 && bytes.HasPrefix(t, []byte("DOCTYPE")) {
			w.declareEntities(string(t))
		}
		markup = "<!" + string(t) + ">"
	}

	switch {
	case len(w.stack) > 0:
		parent := w.stack[len(w.stack)-1]
		parent.children = append(parent.children, &xmlNode{kind: xmlMarkup, text: markup})
	case w.roots == 0:
		w.prolog.WriteString(markup + "\n")
	default:
		w.epilog.WriteString(markup + "\n")
	}
	return nil
}

// declareEntities registers the internal entities of a DOCTYPE so references
// to them resolve in strict mode.
func (w *xmlWalk) declareEntities(doctype string) {
	for _, m := range entityDecl.FindAllStringSubmatch(doctype, -1) {
		if w.dec.Entity == nil {
			w.dec.Entity = map[string]string{}
		}
		// The first declaration of an entity is binding.
		if _, ok := w.dec.Entity[m[1]]; !ok {
			w.dec.Entity[m[1]] = m[2][1 : len(m[2])-1]
		}
	}
}

func (w *xmlWalk) start(t xml.StartElement) error {
	node := &xmlNode{kind: xmlElement, name: rawName(t.Name)}
	if len(w.stack) == 0 {
		w.roots++
		if w.roots > 1 {
			return w.fail(fmt.Sprintf("second root element <%s>", node.name))
		}
		w.root = node
	} else {
		parent := w.stack[len(w.stack)-1]
		parent.elements++
		parent.children = append(parent.children, node)
	}

	w.elements++
	node.attrs = make([]xml.Attr, 0, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			w.namespaces[a.Value] = struct{}{}
		} else {
			w.attributes++
		}
		node.attrs = append(node.attrs, xml.Attr{Name: xml.Name{Local: rawName(a.Name)}, Value: a.Value})
	}

	w.stack = append(w.stack, node)
	if len(w.stack) > w.depth {
		w.depth = len(w.stack)
	}
	return nil
}

func (w *xmlWalk) end(t xml.EndElement) error {
	name := rawName(t.Name)
	if len(w.stack) == 0 {
		return w.fail(fmt.Sprintf("unexpected closing tag </%s>", name))
	}
	top := w.stack[len(w.stack)-1]
	if top.name != name {
		return w.fail(fmt.Sprintf("element <%s> closed by </%s>", top.name, name))
	}
	w.stack = w.stack[:len(w.stack)-1]

	if top.elements == 0 {
		w.leaves++
	}
	return nil
}

// writeXML writes n on its own line at the given level. Block elements put
// each child on a further indented line; every other node is written inline.
func writeXML(b *strings.Builder, n *xmlNode, pad string, level int) {
	b.WriteString(strings.Repeat(pad, level))
	if n.kind != xmlElement || !n.block() {
		writeInline(b, n)
		b.WriteByte('\n')
		return
	}

	writeStartTag(b, n)
	b.WriteByte('\n')
	for _, c := range n.children {
		if c.kind == xmlText {
			continue
		}
		writeXML(b, c, pad, level+1)
	}
	b.WriteString(strings.Repeat(pad, level))
	b.WriteString("</" + n.name + ">\n")
}

func writeInline(b *strings.Builder, n *xmlNode) {
	switch n.kind {
	case xmlText:
		b.WriteString(textEscaper.Replace(n.text))
	case xmlMarkup:
		b.WriteString(n.text)
	default:
		writeStartTag(b, n)
		for _, c := range n.children {
			writeInline(b, c)
		}
		b.WriteString("</" + n.name + ">")
	}
}

func writeStartTag(b *strings.Builder, n *xmlNode) {
	b.WriteString("<" + n.name)
	for _, a := range n.attrs {
		b.WriteString(" " + a.Name.Local + `="` + attrEscaper.Replace(a.Value) + `"`)
	}
	b.WriteByte('>')
}

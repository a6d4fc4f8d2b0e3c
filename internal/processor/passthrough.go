package processor

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/frontmatter"
)

// Markdown statistic keys.
const (
	StatHasFrontmatter  = "has_frontmatter"
	StatFrontmatterKeys = "frontmatter_keys"
	StatHeadingCount    = "heading_count"
	StatLinkCount       = "link_count"
	StatCodeBlockCount  = "code_block_count"
)

// Passthrough returns the text unchanged with line statistics. Markdown
// documents additionally report their frontmatter keys and outline counts.
type Passthrough struct{}

func (Passthrough) Process(text string, d format.Descriptor) Result {
	stats := lineStatistics(text)
	if d.Highlight == "markdown" {
		markdownStatistics(text, stats)
	}
	return Result{
		Category:         d.Category,
		NormalizedText:   text,
		Statistics:       stats,
		ValidationErrors: []string{},
	}
}

var markdown = goldmark.New()

func markdownStatistics(src string, stats Statistics) {
	fm, body, had, err := frontmatter.Split(src)
	keys := []string{}
	if err == nil && had {
		if k, kerr := frontmatter.Keys(fm); kerr == nil {
			keys = k
		}
	} else {
		body = src
		had = false
	}
	stats[StatHasFrontmatter] = had
	stats[StatFrontmatterKeys] = keys

	var headings, links, blocks int
	source := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			headings++
		case ast.KindLink, ast.KindAutoLink:
			links++
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			blocks++
		}
		return ast.WalkContinue, nil
	})

	stats[StatHeadingCount] = headings
	stats[StatLinkCount] = links
	stats[StatCodeBlockCount] = blocks
}

package processor

import (
	"strings"

	"golang.org/x/net/html"
)

// HTML statistic keys, added to code statistics for HTML sources.
const (
	StatScriptCount = "script_count"
	StatHTMLTitle   = "html_title"
)

// htmlStatistics parses text as an HTML document. The parser repairs any
// markup, so malformed input only yields smaller counts. Implied html, head
// and body elements are counted.
func htmlStatistics(text string, stats Statistics) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return
	}

	var elements, links, scripts, headings int
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elements++
			switch n.Data {
			case "a", "link":
				if attr(n, "href") != "" {
					links++
				}
			case "script":
				scripts++
			case "h1", "h2", "h3", "h4", "h5", "h6":
				headings++
			case "title":
				if title == "" {
					title = strings.TrimSpace(nodeText(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	stats[StatElementCount] = elements
	stats[StatLinkCount] = links
	stats[StatScriptCount] = scripts
	stats[StatHeadingCount] = headings
	if title != "" {
		stats[StatHTMLTitle] = title
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			sb.WriteString(nodeText(c))
		}
	}
	return sb.String()
}

package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content is never translated and is
// therefore skipped during extraction.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// TextNode is a visible, translatable text run of an HTML document.
type TextNode struct {
	Index  int    // Position among the document's text nodes
	Text   string // Trimmed text content
	Parent string // Enclosing element name
	Path   string // Ancestor path, outer to inner ("div > p")
}

// ExtractText parses content as HTML and returns its text nodes in document
// order. Whitespace-only nodes, ignored tags and elements marked with
// data-no-translate are skipped. Duplicates are kept so two revisions of the
// same document line up node for node.
func ExtractText(content string) ([]TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var nodes []TextNode

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if IgnoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				node := TextNode{
					Index: len(nodes),
					Text:  trimmed,
					Path:  ancestorPath(n),
				}
				if n.Parent != nil {
					node.Parent = n.Parent.Data
				}
				nodes = append(nodes, node)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})

	return nodes, nil
}

// TextPair is a source text node and the translated node at the same
// position.
type TextPair struct {
	Source      TextNode
	Translation TextNode
}

// PairText extracts the text nodes of both documents and pairs them by
// position. The returned counts let callers report a structural mismatch;
// pairs cover the shorter of the two documents.
func PairText(source, translated string) (pairs []TextPair, sourceCount, translatedCount int, err error) {
	src, err := ExtractText(source)
	if err != nil {
		return nil, 0, 0, err
	}
	dst, err := ExtractText(translated)
	if err != nil {
		return nil, 0, 0, err
	}

	n := min(len(src), len(dst))
	pairs = make([]TextPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = TextPair{Source: src[i], Translation: dst[i]}
	}
	return pairs, len(src), len(dst), nil
}

// ancestorPath returns up to three enclosing element names, outer to inner,
// leaving out html and body.
func ancestorPath(n *html.Node) string {
	var ancestors []string
	for p := n.Parent; p != nil && len(ancestors) < 3; p = p.Parent {
		if p.Type != html.ElementNode || p.Data == "html" || p.Data == "body" {
			continue
		}
		ancestors = append(ancestors, p.Data)
	}
	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}
	return strings.Join(ancestors, " > ")
}

// Package eurlex parses EUR-Lex regulation markup into structured articles.
//
// Three structural variants are handled, detected in order with first
// match winning:
//
//   - modern: post-~2013 XHTML with semantic containers (eli-container,
//     oj-ti-art, oj-sti-art, oj-normal)
//   - mid: ~2004-2012 XHTML with the same classes minus the "oj-" prefix
//   - legacy: pre-~2004 HTML with bare <p> tags inside <div id="TexteOnly">,
//     where article boundaries are inferred from "Article N" lines
//
// All variants produce Article records with whitespace-normalized body
// text, one line per source paragraph.
package eurlex

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// articleHeading matches an article heading at the start of a node's text.
// The number may carry an amending suffix, e.g. "8a".
var articleHeading = regexp.MustCompile(`^Article\s+(\d+[a-z]*)`)

// Parse converts raw EUR-Lex markup into a ParsedDocument. It fails with
// an error wrapping domain.ErrUnrecognizedFormat when none of the known
// structural markers is present.
func Parse(raw []byte, documentID string) (*domain.ParsedDocument, error) {
	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing markup for %s: %w", documentID, err)
	}

	switch {
	case findByClass(root, "eli-container") != nil:
		return parseTagged(root, documentID, domain.FormatModern, "oj-"), nil
	case findByClass(root, "ti-art") != nil:
		return parseTagged(root, documentID, domain.FormatMid, ""), nil
	default:
		if container := findByID(root, "TexteOnly"); container != nil {
			return parseLegacy(container, documentID), nil
		}
	}

	return nil, fmt.Errorf("%s: no eli-container, ti-art, or TexteOnly marker: %w",
		documentID, domain.ErrUnrecognizedFormat)
}

// nodeKind classifies a structural node during the document walk.
type nodeKind int

const (
	kindOther nodeKind = iota
	kindDocTitle
	kindChapter
	kindSection
	kindArticle
	kindSubtitle
	kindBody
	kindSeparator
)

// parseTagged handles the modern and mid variants. Both use the same
// structural classes; only the class prefix differs.
//
// The walk is a fold over document-ordered nodes carrying the current
// (chapter, section) as ambient state: headers persist across articles
// until overridden, they are not reset per article.
func parseTagged(root *html.Node, documentID string, format domain.FormatKind, prefix string) *domain.ParsedDocument {
	var (
		titleParts []string
		articles   []domain.Article
		current    *domain.Article
		body       []string
		chapter    string
		section    string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.Join(body, "\n")
		articles = append(articles, *current)
		current = nil
		body = nil
	}

	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch classify(n, prefix) {
		case kindDocTitle:
			if text := nodeText(n); text != "" {
				titleParts = append(titleParts, text)
			}
		case kindChapter:
			chapter = nodeText(n)
		case kindSection:
			section = nodeText(n)
		case kindArticle:
			flush()
			if m := articleHeading.FindStringSubmatch(nodeText(n)); m != nil {
				current = &domain.Article{
					DocumentID: documentID,
					Number:     m[1],
					Chapter:    chapter,
					Section:    section,
				}
			}
		case kindSubtitle:
			if current != nil && current.Title == "" && len(body) == 0 {
				current.Title = nodeText(n)
			}
		case kindBody:
			if current != nil {
				if text := nodeText(n); text != "" {
					body = append(body, text)
				}
			}
		case kindSeparator:
			flush()
		case kindOther:
			return true
		}
		// Classified nodes are collected whole; don't descend into them.
		return false
	})
	flush()

	title := strings.Join(titleParts, " — ")
	if title == "" {
		title = documentID
	}

	return &domain.ParsedDocument{
		DocumentID: documentID,
		Title:      title,
		Format:     format,
		Articles:   articles,
	}
}

// classify maps an element to its structural role. Tables inside articles
// (numbered lists in older documents) count as body text.
func classify(n *html.Node, prefix string) nodeKind {
	if n.Data == "table" {
		return kindBody
	}
	for _, class := range classTokens(n) {
		switch class {
		case prefix + "doc-ti":
			return kindDocTitle
		case prefix + "ti-section-1":
			return kindChapter
		case prefix + "ti-section-2":
			return kindSection
		case prefix + "ti-art":
			return kindArticle
		case prefix + "sti-art":
			return kindSubtitle
		case prefix + "normal":
			return kindBody
		case prefix + "doc-sep":
			return kindSeparator
		}
	}
	return kindOther
}

// walk visits nodes in document order. The visitor returns false to skip
// a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// nodeText returns the whitespace-normalized text content of a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// classTokens returns the class attribute split into tokens.
func classTokens(n *html.Node) []string {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}
	return nil
}

// findByClass returns the first element carrying the class token.
func findByClass(root *html.Node, class string) *html.Node {
	return find(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range classTokens(n) {
			if c == class {
				return true
			}
		}
		return false
	})
}

// findByID returns the first element with the given id attribute.
func findByID(root *html.Node, id string) *html.Node {
	return find(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return true
			}
		}
		return false
	})
}

// findElement returns the first element with the given tag name under root.
func findElement(root *html.Node, name string) *html.Node {
	return find(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	})
}

func find(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

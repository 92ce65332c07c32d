package eurlex

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// legacySubtitleMaxLen is the length above which the paragraph after an
// article heading is treated as body text rather than a subtitle.
const legacySubtitleMaxLen = 200

var (
	// legacyArticleLine matches a paragraph that is exactly an article heading.
	legacyArticleLine = regexp.MustCompile(`^Article\s+(\d+[a-z]*)$`)

	// annexLine marks the start of annex material; body collection stops there.
	annexLine = regexp.MustCompile(`^ANNEX\b`)

	// numberedClause matches sub-clauses like "1." that can follow a heading.
	numberedClause = regexp.MustCompile(`^\d+\.`)
)

// parseLegacy handles the pre-2004 variant: bare paragraphs with no
// structural markup, sometimes nested in a <TXT_TE> element. Article
// boundaries are inferred from paragraphs that are exactly "Article N".
func parseLegacy(container *html.Node, documentID string) *domain.ParsedDocument {
	if inner := findElement(container, "txt_te"); inner != nil {
		container = inner
	}

	var paragraphs []string
	walk(container, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "p" {
			if text := nodeText(n); text != "" {
				paragraphs = append(paragraphs, text)
			}
			return false
		}
		return true
	})

	title := documentID
	if len(paragraphs) > 0 {
		title = paragraphs[0]
	}

	var articles []domain.Article
	i := 0
	for i < len(paragraphs) {
		m := legacyArticleLine.FindStringSubmatch(paragraphs[i])
		if m == nil {
			i++
			continue
		}

		subtitle := ""
		bodyStart := i + 1
		if i+1 < len(paragraphs) && isLegacySubtitle(paragraphs[i+1]) {
			subtitle = paragraphs[i+1]
			bodyStart = i + 2
		}

		var body []string
		j := bodyStart
		for j < len(paragraphs) {
			if legacyArticleLine.MatchString(paragraphs[j]) || annexLine.MatchString(paragraphs[j]) {
				break
			}
			body = append(body, paragraphs[j])
			j++
		}

		articles = append(articles, domain.Article{
			DocumentID: documentID,
			Number:     m[1],
			Title:      subtitle,
			Body:       strings.Join(body, "\n"),
		})
		i = j
	}

	return &domain.ParsedDocument{
		DocumentID: documentID,
		Title:      title,
		Format:     domain.FormatLegacy,
		Articles:   articles,
	}
}

// isLegacySubtitle reports whether the paragraph following an article
// heading looks like a subtitle: short, not itself a heading, not a
// numbered sub-clause, and not a parenthesized list item.
func isLegacySubtitle(text string) bool {
	return len(text) < legacySubtitleMaxLen &&
		!numberedClause.MatchString(text) &&
		!articleHeading.MatchString(text) &&
		!strings.HasPrefix(text, "(")
}

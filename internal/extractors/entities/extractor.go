// Package entities extracts defined terms and cross-references from
// parsed regulations.
//
// Defined terms follow the standard EU legislative drafting convention:
// a quoted span, optionally followed by a parenthetical alias or a
// "hereinafter called/referred to as" clause, followed by "means" or
// "shall mean". Cross-references are mentions of other instruments such
// as "Regulation (EC) No 178/2002" or "Directive (EU) 2015/1535".
//
// Extraction never fails: malformed or absent text yields empty results.
package entities

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/lexroute/internal/catalog"
	"github.com/custodia-labs/lexroute/internal/core/domain"
)

const (
	// minTermLen and maxTermLen bound the quoted span of a definition.
	minTermLen = 2
	maxTermLen = 80

	// snippetMaxLen is how much definition text follows the match.
	snippetMaxLen = 200

	// snippetSemicolonMin is the earliest offset at which a semicolon
	// truncates the snippet. Earlier semicolons are usually part of an
	// abbreviation or inline enumeration, not a clause boundary.
	snippetSemicolonMin = 50

	// contextBefore and contextAfter bound a cross-reference's context snippet.
	contextBefore = 30
	contextAfter  = 50
)

// Quote glyph classes shared by the term patterns.
const (
	anyQuote = `['"` + "‘’“”«»" + `]`
	notQuote = `[^'"` + "‘’“”«»" + `]`
)

// quotePairs are the recognised symmetric open/close quote glyphs.
var quotePairs = [][2]string{
	{`'`, `'`},
	{`"`, `"`},
	{"‘", "’"}, // curly single
	{"“", "”"}, // curly double
	{"«", "»"}, // guillemets
}

// termPatterns holds one compiled pattern per quote pair. RE2 has no
// backreferences, so symmetric quoting is expressed as one pattern per pair.
var termPatterns = buildTermPatterns()

func buildTermPatterns() []*regexp.Regexp {
	tail := `\s*` +
		`(?:\([^)]{0,80}\)\s*)?` + // optional parenthetical alias
		`(?:,\s*hereinafter\s+(?:called|referred\s+to\s+as)\s*` +
		anyQuote + `\s*` + notQuote + `+\s*` + anyQuote + `\s*,?\s*)?` +
		`(?:shall\s+)?means?`

	patterns := make([]*regexp.Regexp, 0, len(quotePairs))
	for _, pair := range quotePairs {
		expr := `(?i)` + regexp.QuoteMeta(pair[0]) +
			`\s*(` + notQuote + `{2,80})\s*` +
			regexp.QuoteMeta(pair[1]) + tail
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

// crossRefPattern matches mentions of other EU instruments: an optional
// issuing-body phrase, the instrument kind, a parenthesized type code,
// and a number/year pair.
var crossRefPattern = regexp.MustCompile(`(?i)` +
	`(?:Commission\s+|European\s+Parliament\s+(?:and\s+(?:of\s+the\s+)?Council\s+)?)?` +
	`(?:Regulation|Directive|Decision)\s*` +
	`\((?:EC|EU|EEC|Euratom)\)\s*` +
	`(?:No\s+)?` +
	`(\d{1,4})/(\d{4})`)

// termMatch is one quoted-term match with its span in the article text.
type termMatch struct {
	start, end int
	term       string
}

// ExtractDefinedTerms scans an article's body for defined terms.
// First occurrence of a normalized term within the article wins; later
// repeats are dropped silently.
func ExtractDefinedTerms(article domain.Article, category string) []domain.DefinedTerm {
	text := article.Body
	if text == "" {
		return nil
	}

	var matches []termMatch
	for _, pattern := range termPatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
			matches = append(matches, termMatch{
				start: loc[0],
				end:   loc[1],
				term:  text[loc[2]:loc[3]],
			})
		}
	}
	// Forward scan order, regardless of which quote pair matched.
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var terms []domain.DefinedTerm
	seen := make(map[string]bool)

	for _, m := range matches {
		term := normalizeTerm(m.term)
		if len(term) < minTermLen {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true

		terms = append(terms, domain.DefinedTerm{
			Term:          term,
			DocumentID:    article.DocumentID,
			ArticleNumber: article.Number,
			Snippet:       definitionSnippet(text, m.end),
			Category:      category,
		})
	}

	return terms
}

// ExtractCrossReferences scans an article for mentions of other
// instruments. Duplicate number/year pairs within one article collapse.
func ExtractCrossReferences(article domain.Article) []domain.CrossReference {
	text := article.Body
	if text == "" {
		return nil
	}

	var refs []domain.CrossReference
	seen := make(map[string]bool)

	for _, loc := range crossRefPattern.FindAllStringSubmatchIndex(text, -1) {
		target := text[loc[2]:loc[3]] + "/" + text[loc[4]:loc[5]]
		if seen[target] {
			continue
		}
		seen[target] = true

		start := runeFloor(text, max(0, loc[0]-contextBefore))
		end := runeCeil(text, min(len(text), loc[1]+contextAfter))

		refs = append(refs, domain.CrossReference{
			SourceDocumentID:    article.DocumentID,
			SourceArticleNumber: article.Number,
			TargetNumber:        target,
			Context:             text[start:end],
		})
	}

	return refs
}

// IsDefinitionsArticle reports whether defined-term extraction applies:
// the article title contains "definition" or "scope".
func IsDefinitionsArticle(article domain.Article) bool {
	title := strings.ToLower(article.Title)
	return strings.Contains(title, "definition") || strings.Contains(title, "scope")
}

// ExtractEntities folds both extractions over every article of every
// document. Lists concatenate; there is no cross-document deduplication.
func ExtractEntities(docs []domain.ParsedDocument, cat *catalog.Catalog) *domain.EntityIndex {
	index := &domain.EntityIndex{}

	for _, doc := range docs {
		category := ""
		if cat != nil {
			category = cat.Category(doc.DocumentID)
		}
		for _, article := range doc.Articles {
			if IsDefinitionsArticle(article) {
				index.DefinedTerms = append(index.DefinedTerms, ExtractDefinedTerms(article, category)...)
			}
			index.CrossReferences = append(index.CrossReferences, ExtractCrossReferences(article)...)
		}
	}

	return index
}

// normalizeTerm cleans an extracted quoted span: trim, collapse internal
// whitespace, strip trailing punctuation artifacts.
func normalizeTerm(raw string) string {
	term := strings.Join(strings.Fields(raw), " ")
	return strings.TrimRight(term, ",;.")
}

// definitionSnippet returns the ~200 characters following a term match,
// truncated at the first semicolon past the early-abbreviation window.
func definitionSnippet(text string, start int) string {
	end := runeCeil(text, min(start+snippetMaxLen, len(text)))
	snippet := strings.TrimSpace(text[start:end])
	if i := strings.Index(snippet, ";"); i > snippetSemicolonMin {
		snippet = snippet[:i]
	}
	return snippet
}

// runeFloor moves a byte offset back to the nearest rune boundary.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves a byte offset forward to the nearest rune boundary.
func runeCeil(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

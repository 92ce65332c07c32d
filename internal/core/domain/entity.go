package domain

import (
	"sort"
	"strings"
)

// DefinedTerm is a phrase given an explicit legal meaning within a
// definitions or scope article.
type DefinedTerm struct {
	// Term is the normalized term text with original casing, e.g. "food additive".
	Term string

	// DocumentID is the defining regulation.
	DocumentID string

	// ArticleNumber is the article the definition appears in.
	ArticleNumber string

	// Snippet is the first ~200 characters of the definition text.
	Snippet string

	// Category is the regulatory category of the defining document,
	// from the static catalog.
	Category string
}

// NormalizedTerm returns the lowercased lookup key for the term.
func (t DefinedTerm) NormalizedTerm() string {
	return strings.ToLower(strings.TrimSpace(t.Term))
}

// CrossReference is a textual mention of another legal instrument by
// type, number and year.
type CrossReference struct {
	// SourceDocumentID is the regulation containing the mention.
	SourceDocumentID string

	// SourceArticleNumber is the article containing the mention.
	SourceArticleNumber string

	// TargetNumber is the referenced instrument as "number/year", e.g. "178/2002".
	TargetNumber string

	// Context is the surrounding text snippet.
	Context string
}

// EntityIndex aggregates all entities extracted from a corpus snapshot.
// Rebuilt wholesale on each ingestion run.
type EntityIndex struct {
	DefinedTerms    []DefinedTerm    `json:"defined_terms"`
	CrossReferences []CrossReference `json:"cross_references"`
}

// TermSources maps each normalized term to the DefinedTerms that define it.
func (e *EntityIndex) TermSources() map[string][]DefinedTerm {
	result := make(map[string][]DefinedTerm)
	for _, dt := range e.DefinedTerms {
		key := dt.NormalizedTerm()
		result[key] = append(result[key], dt)
	}
	return result
}

// DocumentTerms maps each document ID to the terms it defines.
func (e *EntityIndex) DocumentTerms() map[string][]DefinedTerm {
	result := make(map[string][]DefinedTerm)
	for _, dt := range e.DefinedTerms {
		result[dt.DocumentID] = append(result[dt.DocumentID], dt)
	}
	return result
}

// UniqueTerms returns the sorted set of normalized terms.
func (e *EntityIndex) UniqueTerms() []string {
	seen := make(map[string]bool)
	for _, dt := range e.DefinedTerms {
		seen[dt.NormalizedTerm()] = true
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

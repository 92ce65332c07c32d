package domain

import "time"

// FormatKind records which structural variant the parser detected.
// Diagnostic only; downstream consumers do not branch on it.
type FormatKind string

const (
	// FormatModern is the post-2013 variant with semantic container markup.
	FormatModern FormatKind = "modern"

	// FormatMid is the ~2004-2012 variant with unprefixed structural classes.
	FormatMid FormatKind = "mid"

	// FormatLegacy is the pre-2004 variant with bare paragraphs and no
	// structural markup; article boundaries are inferred from the text.
	FormatLegacy FormatKind = "legacy"
)

// Article is a numbered subdivision of a regulation. It is the atomic
// retrieval unit: cross-references point at articles, and chunking never
// crosses an article boundary.
//
// Number is a string because amending regulations insert articles like
// "8a" and "8b", and may repeat a number outright. Identity is therefore
// (DocumentID, Number, occurrence within the document), not Number alone.
type Article struct {
	// DocumentID is the CELEX identifier of the containing regulation.
	DocumentID string

	// Number is the article number as printed, e.g. "3" or "8a".
	Number string

	// Title is the article subtitle, e.g. "Definitions". May be empty.
	Title string

	// Body is the article text, whitespace-normalized, one line per
	// source paragraph.
	Body string

	// Chapter is the most recent chapter heading seen before this article.
	Chapter string

	// Section is the most recent section heading seen before this article.
	Section string
}

// ParsedDocument is the structural parser's output for one regulation.
// Articles preserve source order. Immutable after parsing.
type ParsedDocument struct {
	// DocumentID is the CELEX identifier.
	DocumentID string

	// Title is the document title assembled from title markup, or the
	// document ID when no title could be found.
	Title string

	// Format is the detected structural variant.
	Format FormatKind

	// Articles in source order.
	Articles []Article
}

// RawDocument is the fetcher's output: the raw markup of one regulation
// before structural parsing.
type RawDocument struct {
	// DocumentID is the CELEX identifier.
	DocumentID string

	// ContentType is the negotiated content type, e.g. "application/xhtml+xml".
	ContentType string

	// Content is the raw markup bytes.
	Content []byte

	// FetchedAt is when the document was retrieved from the source.
	FetchedAt time.Time

	// FromCache is true when the document was served from the local cache
	// rather than the network.
	FromCache bool
}

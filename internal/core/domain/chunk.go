package domain

import (
	"fmt"
	"strings"
)

// Chunk is a retrieval-sized slice of one article's text, with enough
// metadata to reconstruct its place in the source document.
type Chunk struct {
	// DocumentID is the CELEX identifier of the source regulation.
	DocumentID string

	// ArticleNumber is the article number as printed, e.g. "3" or "8a".
	ArticleNumber string

	// ArticleTitle is the article subtitle. May be empty.
	ArticleTitle string

	// Chapter and Section are the ambient headings inherited from the article.
	Chapter string
	Section string

	// Text is the chunk body without the context header.
	Text string

	// Index is the ordinal position within the article's chunks.
	Index int

	// TotalChunks is the number of chunks produced for the article.
	TotalChunks int

	// Occurrence disambiguates articles whose number recurs within a
	// document (amending insertions). Zero when the number is unique.
	Occurrence int
}

// ID derives the deterministic chunk identifier. The base key is the
// document and article number; the occurrence counter is appended only
// when the article number recurs within the document, and the chunk
// index only when the article was split.
func (c Chunk) ID() string {
	id := fmt.Sprintf("%s_art%s", c.DocumentID, c.ArticleNumber)
	if c.Occurrence > 0 {
		id += fmt.Sprintf("_occ%d", c.Occurrence)
	}
	if c.TotalChunks > 1 {
		id += fmt.Sprintf("_chunk%d", c.Index)
	}
	return id
}

// ContextHeader is the human-readable provenance prefix for the chunk.
func (c Chunk) ContextHeader() string {
	parts := []string{fmt.Sprintf("[%s]", c.DocumentID)}
	if c.Chapter != "" {
		parts = append(parts, c.Chapter)
	}
	if c.Section != "" {
		parts = append(parts, c.Section)
	}
	parts = append(parts, fmt.Sprintf("Article %s", c.ArticleNumber))
	if c.ArticleTitle != "" {
		parts = append(parts, "— "+c.ArticleTitle)
	}
	if c.TotalChunks > 1 {
		parts = append(parts, fmt.Sprintf("(part %d/%d)", c.Index+1, c.TotalChunks))
	}
	return strings.Join(parts, " ")
}

// EmbeddingText is the text sent to the encoder: the context header
// participates in what gets embedded, not just in display.
func (c Chunk) EmbeddingText() string {
	return c.ContextHeader() + "\n\n" + c.Text
}

// Meta returns the metadata record stored alongside the chunk's vector.
func (c Chunk) Meta() ChunkMeta {
	return ChunkMeta{
		ChunkID:       c.ID(),
		DocumentID:    c.DocumentID,
		ArticleNumber: c.ArticleNumber,
		ArticleTitle:  c.ArticleTitle,
		Chapter:       c.Chapter,
		Section:       c.Section,
		ChunkIndex:    c.Index,
		TotalChunks:   c.TotalChunks,
		Occurrence:    c.Occurrence,
		CharCount:     len(c.Text),
	}
}

// ChunkMeta is the persisted metadata record for an indexed chunk.
// Used for document-ID filtering at search time.
type ChunkMeta struct {
	ChunkID       string `json:"chunk_id"`
	DocumentID    string `json:"document_id"`
	ArticleNumber string `json:"article_number"`
	ArticleTitle  string `json:"article_title"`
	Chapter       string `json:"chapter"`
	Section       string `json:"section"`
	ChunkIndex    int    `json:"chunk_index"`
	TotalChunks   int    `json:"total_chunks"`
	Occurrence    int    `json:"occurrence"`
	CharCount     int    `json:"char_count"`
}

// SearchHit is a single similarity search result.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string `json:"chunk_id"`

	// Text is the indexed text including the context header.
	Text string `json:"text"`

	// Meta is the chunk's metadata record.
	Meta ChunkMeta `json:"metadata"`

	// Score is the cosine similarity (dot product of unit vectors).
	Score float64 `json:"score"`
}

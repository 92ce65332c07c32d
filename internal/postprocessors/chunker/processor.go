// Package chunker provides article-aware chunking of regulatory text.
//
// Each article becomes one or more chunks. Long articles are split at
// paragraph boundaries with the article's context (number, title,
// chapter, section) preserved in every chunk. An article is the atomic
// unit of a legal obligation, so chunking never crosses article
// boundaries and undersized trailing chunks are merged back.
package chunker

import (
	"strings"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// DefaultMaxChars is the joined chunk length above which an article is split.
const DefaultMaxChars = 2000

// DefaultMinChars is the minimum chunk size; a trailing accumulation
// below it is merged into the previous chunk.
const DefaultMinChars = 200

// emptyArticlePlaceholder is indexed for articles with no body text.
const emptyArticlePlaceholder = "(empty article)"

// Processor splits articles into retrieval-sized chunks.
type Processor struct {
	maxChars int
	minChars int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the split threshold in characters.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// WithMinChars sets the minimum chunk size in characters.
func WithMinChars(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minChars = n
		}
	}
}

// New creates a chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars: DefaultMaxChars,
		minChars: DefaultMinChars,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.minChars >= p.maxChars {
		p.minChars = p.maxChars / 10
	}
	return p
}

// ChunkArticle splits one article. Degenerate articles still produce
// exactly one chunk; it never fails.
func (p *Processor) ChunkArticle(article domain.Article) []domain.Chunk {
	body := strings.TrimSpace(article.Body)

	if body == "" {
		text := article.Title
		if text == "" {
			text = emptyArticlePlaceholder
		}
		return []domain.Chunk{p.newChunk(article, text, 0, 1)}
	}

	if len(body) <= p.maxChars {
		return []domain.Chunk{p.newChunk(article, body, 0, 1)}
	}

	texts := p.split(body)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, p.newChunk(article, text, i, len(texts)))
	}
	return chunks
}

// split accumulates paragraphs into chunks. A chunk closes when adding
// the next paragraph would push the joined length past maxChars and the
// accumulation has already reached minChars. A trailing accumulation
// below minChars merges into the previous chunk instead of becoming an
// undersized final chunk.
func (p *Processor) split(body string) []string {
	var (
		texts   []string
		parts   []string
		currLen int
	)

	for _, para := range strings.Split(body, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Joined length includes the newline separator.
		joined := len(para)
		if len(parts) > 0 {
			joined = currLen + 1 + len(para)
		}

		if joined > p.maxChars && currLen >= p.minChars {
			texts = append(texts, strings.Join(parts, "\n"))
			parts = []string{para}
			currLen = len(para)
		} else {
			parts = append(parts, para)
			currLen = joined
		}
	}

	if len(parts) > 0 {
		tail := strings.Join(parts, "\n")
		if len(texts) > 0 && currLen < p.minChars {
			texts[len(texts)-1] += "\n" + tail
		} else {
			texts = append(texts, tail)
		}
	}

	return texts
}

// ChunkDocument chunks all articles of a document. Amending regulations
// can contain multiple articles with the same number (inserting Art 8,
// 8a, 8b into a target regulation); when a number recurs, each of its
// articles is assigned a stable occurrence counter so chunk IDs stay
// unique. Documents without recurring numbers are left untouched.
func (p *Processor) ChunkDocument(doc *domain.ParsedDocument) []domain.Chunk {
	counts := make(map[string]int, len(doc.Articles))
	for _, a := range doc.Articles {
		counts[a.Number]++
	}

	occurrence := make(map[string]int)
	var chunks []domain.Chunk

	for _, article := range doc.Articles {
		cs := p.ChunkArticle(article)
		if counts[article.Number] > 1 {
			occurrence[article.Number]++
			for i := range cs {
				cs[i].Occurrence = occurrence[article.Number]
			}
		}
		chunks = append(chunks, cs...)
	}

	return chunks
}

// ChunkCorpus chunks every document in the corpus snapshot.
func (p *Processor) ChunkCorpus(docs []domain.ParsedDocument) []domain.Chunk {
	var chunks []domain.Chunk
	for i := range docs {
		chunks = append(chunks, p.ChunkDocument(&docs[i])...)
	}
	return chunks
}

func (p *Processor) newChunk(article domain.Article, text string, index, total int) domain.Chunk {
	return domain.Chunk{
		DocumentID:    article.DocumentID,
		ArticleNumber: article.Number,
		ArticleTitle:  article.Title,
		Chapter:       article.Chapter,
		Section:       article.Section,
		Text:          text,
		Index:         index,
		TotalChunks:   total,
	}
}

package driven

import (
	"context"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// VectorIndex stores chunk vectors with metadata and answers filtered
// top-k similarity queries. Indexing replaces the stored corpus
// wholesale; there is no incremental update.
type VectorIndex interface {
	// IndexChunks embeds and stores the given chunks, replacing any
	// existing index. Returns the number of chunks indexed.
	IndexChunks(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Search returns the k most similar chunks to the query vector,
	// sorted by descending score. When documentIDs is non-empty, only
	// chunks from those documents are eligible. An empty index or a
	// filter matching nothing yields an empty result, not an error.
	Search(ctx context.Context, query []float32, documentIDs []string, k int) ([]domain.SearchHit, error)

	// Count returns the number of indexed chunks.
	Count() int

	// Close releases resources.
	Close() error
}

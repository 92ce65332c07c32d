package driven

import "context"

// Encoder maps text to fixed-length embedding vectors.
//
// Implementations must return vectors pre-normalized to unit length so
// that cosine similarity reduces to a dot product, and must be
// deterministic for identical input within one model version. The
// similarity index never renormalizes returned vectors.
type Encoder interface {
	// EncodeBatch embeds multiple texts in one call, preserving order.
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}

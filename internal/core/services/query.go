package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/ports/driven"
	"github.com/custodia-labs/lexroute/internal/logger"
)

// QueryService answers semantic queries over the indexed corpus,
// optionally restricted to a routed document set.
type QueryService struct {
	encoder driven.Encoder
	index   driven.VectorIndex
}

// NewQueryService wires the query path.
func NewQueryService(encoder driven.Encoder, index driven.VectorIndex) *QueryService {
	return &QueryService{encoder: encoder, index: index}
}

// Search embeds the query text and returns the k most similar chunks.
// When documentIDs is non-empty, only chunks from those documents are
// eligible; a filter matching nothing yields an empty result.
func (s *QueryService) Search(ctx context.Context, query string, documentIDs []string, k int) ([]domain.SearchHit, error) {
	if s.encoder == nil {
		return nil, domain.ErrEncoderUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrIndexUnavailable
	}

	vectors, err := s.encoder.EncodeBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("encoder returned no vector")
	}

	logger.Debug("search %q over %d documents, k=%d", query, len(documentIDs), k)
	return s.index.Search(ctx, vectors[0], documentIDs, k)
}

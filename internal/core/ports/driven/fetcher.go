package driven

import (
	"context"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// Fetcher retrieves raw document markup by document ID.
// Implementations are expected to cache: fetching the same ID twice is
// idempotent, and cached responses bypass the network and rate limiting.
type Fetcher interface {
	// Fetch returns the raw markup for the given CELEX identifier.
	Fetch(ctx context.Context, documentID string) (*domain.RawDocument, error)
}

// RawStore persists fetched raw documents so repeated ingestion runs do
// not hit the network.
type RawStore interface {
	// Get returns the cached document, or nil and no error when absent.
	Get(ctx context.Context, documentID string) (*domain.RawDocument, error)

	// Put stores a fetched document, replacing any previous copy.
	Put(ctx context.Context, raw *domain.RawDocument) error

	// Close releases resources.
	Close() error
}

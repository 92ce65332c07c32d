// Package cellar fetches EU regulations from the Cellar REST endpoint
// at publications.europa.eu.
//
// Cellar serves CELEX-addressed documents via HTTP content negotiation
// and requires no authentication. The Accept header must allow both
// text/html (older documents) and application/xhtml+xml (newer ones) or
// older regulations return 404. Fetches are cached through a RawStore,
// so repeat fetches are idempotent and bypass the network; uncached
// fetches are throttled by a token bucket to stay polite.
package cellar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/ports/driven"
	"github.com/custodia-labs/lexroute/internal/logger"
)

// Ensure Connector implements the port.
var _ driven.Fetcher = (*Connector)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://publications.europa.eu/resource/celex/"

	// DefaultRate throttles uncached fetches to one request per second.
	DefaultRate = 1.0

	DefaultTimeout = 30 * time.Second
)

// Content negotiation headers.
const (
	acceptHeader         = "text/html, application/xhtml+xml;q=0.9"
	acceptLanguageHeader = "eng"
)

// Config holds configuration for the Cellar connector.
type Config struct {
	// BaseURL is the Cellar resource endpoint.
	BaseURL string

	// RequestsPerSecond throttles uncached fetches.
	RequestsPerSecond float64

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// Connector is a cached, rate-limited Cellar fetcher.
type Connector struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	store   driven.RawStore
}

// New creates a Cellar connector. The store may be nil to disable caching.
func New(cfg Config, store driven.RawStore) *Connector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Connector{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		store:   store,
	}
}

// Fetch returns the raw markup for a CELEX identifier. Cache hits skip
// the network and the rate limiter.
func (c *Connector) Fetch(ctx context.Context, documentID string) (*domain.RawDocument, error) {
	if documentID == "" {
		return nil, domain.ErrInvalidInput
	}

	if c.store != nil {
		cached, err := c.store.Get(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			logger.Debug("cache hit: %s (%d bytes)", documentID, len(cached.Content))
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+documentID, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", documentID, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", documentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", documentID, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", documentID, err)
	}

	raw := &domain.RawDocument{
		DocumentID:  documentID,
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
		FetchedAt:   time.Now(),
	}
	logger.Debug("fetched %s: %d bytes (%s)", documentID, len(content), raw.ContentType)

	if c.store != nil {
		if err := c.store.Put(ctx, raw); err != nil {
			return nil, err
		}
	}

	return raw, nil
}

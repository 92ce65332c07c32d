// Package sqlite provides a SQLite-backed cache of fetched raw
// documents, so repeated ingestion runs do not hit the network.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database runs in WAL mode and is safe for
// concurrent use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/ports/driven"
)

// Ensure RawStore implements the port.
var _ driven.RawStore = (*RawStore)(nil)

// RawStore caches raw regulation markup keyed by CELEX identifier.
type RawStore struct {
	db   *sql.DB
	path string
}

// NewRawStore opens (or creates) the cache database under dataDir.
func NewRawStore(dataDir string) (*RawStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "rawcache.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS raw_documents (
			celex_id     TEXT PRIMARY KEY,
			content      BLOB NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			fetched_at   TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating raw_documents table: %w", err)
	}

	return &RawStore{db: db, path: dbPath}, nil
}

// Get returns the cached document, or nil and no error when absent.
func (s *RawStore) Get(ctx context.Context, documentID string) (*domain.RawDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT content, content_type, fetched_at
		FROM raw_documents WHERE celex_id = ?
	`, documentID)

	var (
		content     []byte
		contentType string
		fetchedAt   string
	)
	if err := row.Scan(&content, &contentType, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cached document %s: %w", documentID, err)
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		ts = time.Time{}
	}

	return &domain.RawDocument{
		DocumentID:  documentID,
		ContentType: contentType,
		Content:     content,
		FetchedAt:   ts,
		FromCache:   true,
	}, nil
}

// Put stores a fetched document, replacing any previous copy.
func (s *RawStore) Put(ctx context.Context, raw *domain.RawDocument) error {
	if raw == nil || raw.DocumentID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raw_documents (celex_id, content, content_type, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(celex_id) DO UPDATE SET
			content = excluded.content,
			content_type = excluded.content_type,
			fetched_at = excluded.fetched_at
	`, raw.DocumentID, raw.Content, raw.ContentType, raw.FetchedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("caching document %s: %w", raw.DocumentID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *RawStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RawStore) Path() string {
	return s.path
}

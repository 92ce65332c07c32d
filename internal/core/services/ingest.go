package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexroute/internal/catalog"
	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/ports/driven"
	"github.com/custodia-labs/lexroute/internal/extractors/entities"
	"github.com/custodia-labs/lexroute/internal/logger"
	"github.com/custodia-labs/lexroute/internal/normalisers/eurlex"
	"github.com/custodia-labs/lexroute/internal/postprocessors/chunker"
)

// entityIndexFile is the persisted entity index within the data directory.
// Query commands rebuild the routing table from it without re-parsing.
const entityIndexFile = "entities.json"

// IngestService runs the full pipeline: fetch, parse, extract entities,
// chunk, embed, index. The corpus is rebuilt wholesale on each run.
type IngestService struct {
	catalog *catalog.Catalog
	fetcher driven.Fetcher
	index   driven.VectorIndex
	chunker *chunker.Processor
	dataDir string
}

// NewIngestService wires the ingestion pipeline.
func NewIngestService(cat *catalog.Catalog, fetcher driven.Fetcher, index driven.VectorIndex, chk *chunker.Processor, dataDir string) *IngestService {
	return &IngestService{
		catalog: cat,
		fetcher: fetcher,
		index:   index,
		chunker: chk,
		dataDir: dataDir,
	}
}

// DocumentReport records the outcome of one document's ingestion.
type DocumentReport struct {
	DocumentID string            `json:"document_id"`
	FromCache  bool              `json:"from_cache"`
	Format     domain.FormatKind `json:"format,omitempty"`
	Articles   int               `json:"articles"`
	Error      string            `json:"error,omitempty"`
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	RunID         string           `json:"run_id"`
	StartedAt     time.Time        `json:"started_at"`
	Duration      time.Duration    `json:"duration"`
	Documents     []DocumentReport `json:"documents"`
	Parsed        int              `json:"parsed"`
	Failed        int              `json:"failed"`
	DefinedTerms  int              `json:"defined_terms"`
	CrossRefs     int              `json:"cross_references"`
	ChunksIndexed int              `json:"chunks_indexed"`
}

// Run ingests the whole catalog. A document that cannot be fetched or
// parsed is recorded and skipped; it never aborts the batch.
func (s *IngestService) Run(ctx context.Context) (*IngestReport, error) {
	report := &IngestReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	logger.Section("ingest " + report.RunID)

	var docs []domain.ParsedDocument

	for _, celexID := range s.catalog.IDs() {
		docReport := DocumentReport{DocumentID: celexID}

		raw, err := s.fetcher.Fetch(ctx, celexID)
		if err != nil {
			logger.Warn("fetch %s: %v", celexID, err)
			docReport.Error = err.Error()
			report.Documents = append(report.Documents, docReport)
			report.Failed++
			continue
		}
		docReport.FromCache = raw.FromCache

		parsed, err := eurlex.Parse(raw.Content, celexID)
		if err != nil {
			if errors.Is(err, domain.ErrUnrecognizedFormat) {
				logger.Warn("parse %s: unrecognized format", celexID)
			} else {
				logger.Warn("parse %s: %v", celexID, err)
			}
			docReport.Error = err.Error()
			report.Documents = append(report.Documents, docReport)
			report.Failed++
			continue
		}

		docReport.Format = parsed.Format
		docReport.Articles = len(parsed.Articles)
		report.Documents = append(report.Documents, docReport)
		report.Parsed++
		logger.Debug("parsed %s: %d articles (%s)", celexID, len(parsed.Articles), parsed.Format)

		docs = append(docs, *parsed)
	}

	index := entities.ExtractEntities(docs, s.catalog)
	report.DefinedTerms = len(index.DefinedTerms)
	report.CrossRefs = len(index.CrossReferences)
	logger.Info("extracted %d defined terms, %d cross-references", report.DefinedTerms, report.CrossRefs)

	if err := s.saveEntityIndex(index); err != nil {
		return report, fmt.Errorf("persisting entity index: %w", err)
	}

	chunks := s.chunker.ChunkCorpus(docs)
	logger.Info("chunked %d documents into %d chunks", len(docs), len(chunks))

	indexed, err := s.index.IndexChunks(ctx, chunks)
	if err != nil {
		return report, fmt.Errorf("indexing chunks: %w", err)
	}
	report.ChunksIndexed = indexed
	report.Duration = time.Since(report.StartedAt)

	return report, nil
}

// saveEntityIndex persists the entity index for query-time routing.
func (s *IngestService) saveEntityIndex(index *domain.EntityIndex) error {
	if err := os.MkdirAll(s.dataDir, 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dataDir, entityIndexFile), data, 0o600)
}

// LoadEntityIndex reads the persisted entity index from a data
// directory. A missing file yields an empty index, not an error: routing
// then falls back to the always-included set and the manual category map.
func LoadEntityIndex(dataDir string) (*domain.EntityIndex, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, entityIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.EntityIndex{}, nil
		}
		return nil, fmt.Errorf("reading entity index: %w", err)
	}

	var index domain.EntityIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decoding entity index: %w", err)
	}
	return &index, nil
}

package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroute/internal/catalog"
	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/services"
)

// stubEncoder and stubIndex back the query service in command tests.
type stubEncoder struct{}

func (stubEncoder) EncodeBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}
func (stubEncoder) Dimensions() int   { return 2 }
func (stubEncoder) ModelName() string { return "stub" }

type stubIndex struct {
	hits []domain.SearchHit
	docs []string
}

func (s *stubIndex) IndexChunks(_ context.Context, chunks []domain.Chunk) (int, error) {
	return len(chunks), nil
}

func (s *stubIndex) Search(_ context.Context, _ []float32, documentIDs []string, _ int) ([]domain.SearchHit, error) {
	s.docs = documentIDs
	return s.hits, nil
}
func (s *stubIndex) Count() int   { return len(s.hits) }
func (s *stubIndex) Close() error { return nil }

// setupTestServices wires fake services and returns a cleanup func.
func setupTestServices(t *testing.T) (*stubIndex, func()) {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	entityIndex := &domain.EntityIndex{
		DefinedTerms: []domain.DefinedTerm{
			{Term: "food additive", DocumentID: "32008R1333", ArticleNumber: "3", Snippet: "any substance"},
		},
	}

	index := &stubIndex{hits: []domain.SearchHit{{
		ChunkID: "32008R1333_art3",
		Text:    "[32008R1333] Article 3\n\ndefinition text",
		Meta:    domain.ChunkMeta{DocumentID: "32008R1333", ArticleNumber: "3"},
		Score:   0.91,
	}}}

	previous := svc
	SetServices(&Services{
		Catalog:  cat,
		Entities: entityIndex,
		Routing:  services.NewRoutingTable(cat, entityIndex),
		Query:    services.NewQueryService(stubEncoder{}, index),
	})

	return index, func() { svc = previous }
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// fakeEncoder returns one fixed vector per input text.
type fakeEncoder struct {
	vector []float32
	texts  []string
}

func (f *fakeEncoder) EncodeBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = append(f.texts, texts...)
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEncoder) Dimensions() int   { return len(f.vector) }
func (f *fakeEncoder) ModelName() string { return "fake" }

// recordingIndex captures the search arguments it receives.
type recordingIndex struct {
	fakeVectorIndex
	query []float32
	docs  []string
	k     int
	hits  []domain.SearchHit
}

func (r *recordingIndex) Search(_ context.Context, query []float32, documentIDs []string, k int) ([]domain.SearchHit, error) {
	r.query = query
	r.docs = documentIDs
	r.k = k
	return r.hits, nil
}

func TestQuery_Search(t *testing.T) {
	encoder := &fakeEncoder{vector: []float32{0.1, 0.9}}
	index := &recordingIndex{hits: []domain.SearchHit{{ChunkID: "32002R0178_art2", Score: 0.8}}}

	svc := NewQueryService(encoder, index)
	hits, err := svc.Search(context.Background(), "what counts as food?", []string{"32002R0178"}, 5)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "32002R0178_art2", hits[0].ChunkID)

	assert.Equal(t, []string{"what counts as food?"}, encoder.texts)
	assert.Equal(t, []float32{0.1, 0.9}, index.query)
	assert.Equal(t, []string{"32002R0178"}, index.docs)
	assert.Equal(t, 5, index.k)
}

func TestQuery_NilEncoder(t *testing.T) {
	svc := NewQueryService(nil, &fakeVectorIndex{})

	_, err := svc.Search(context.Background(), "q", nil, 5)
	assert.ErrorIs(t, err, domain.ErrEncoderUnavailable)
}

func TestQuery_NilIndex(t *testing.T) {
	svc := NewQueryService(&fakeEncoder{vector: []float32{1}}, nil)

	_, err := svc.Search(context.Background(), "q", nil, 5)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

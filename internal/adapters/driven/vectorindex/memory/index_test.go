package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// fakeEncoder returns fixed unit vectors chosen by substring match, so
// similarity orderings in tests are exact.
type fakeEncoder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEncoder) EncodeBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("encoder down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{0, 0, 1}
		for key, vec := range f.vectors {
			if strings.Contains(text, key) {
				out[i] = vec
				break
			}
		}
	}
	return out, nil
}

func (f *fakeEncoder) Dimensions() int   { return 3 }
func (f *fakeEncoder) ModelName() string { return "fake" }

func chunk(docID, number, text string) domain.Chunk {
	return domain.Chunk{
		DocumentID:    docID,
		ArticleNumber: number,
		Text:          text,
		TotalChunks:   1,
	}
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		chunk("32002R0178", "2", "definition of food"),
		chunk("32008R1333", "3", "definition of additive"),
		chunk("32011R1169", "9", "mandatory particulars"),
	}
}

func testEncoder() *fakeEncoder {
	return &fakeEncoder{vectors: map[string][]float32{
		"food":        {1, 0, 0},
		"additive":    {0.6, 0.8, 0},
		"particulars": {0, 1, 0},
	}}
}

func TestNew_EmptyDirStartsEmpty(t *testing.T) {
	idx, err := New(testEncoder(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, idx.Count())

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexChunks_AndSearchOrdering(t *testing.T) {
	idx, err := New(testEncoder(), "")
	require.NoError(t, err)

	n, err := idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, idx.Count())

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, nil, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Scores: food=1.0, additive=0.6, particulars=0.0.
	assert.Equal(t, "32002R0178_art2", hits[0].ChunkID)
	assert.Equal(t, "32008R1333_art3", hits[1].ChunkID)
	assert.Equal(t, "32011R1169_art9", hits[2].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.6, hits[1].Score, 1e-6)
}

func TestSearch_KCapsResults(t *testing.T) {
	idx, err := New(testEncoder(), "")
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, nil, 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// k larger than the corpus returns everything.
	hits, err = idx.Search(context.Background(), []float32{1, 0, 0}, nil, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearch_DocumentFilter(t *testing.T) {
	idx, err := New(testEncoder(), "")
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, []string{"32008R1333"}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "32008R1333", hits[0].Meta.DocumentID)
}

func TestSearch_FilterMatchingNothingIsEmpty(t *testing.T) {
	idx, err := New(testEncoder(), "")
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, []string{"39999R9999"}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	idx, err := New(testEncoder(), "")
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 0}, nil, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")
}

func TestSearch_TieKeepsInsertionOrder(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"first":  {1, 0, 0},
		"second": {1, 0, 0},
	}}
	idx, err := New(enc, "")
	require.NoError(t, err)

	_, err = idx.IndexChunks(context.Background(), []domain.Chunk{
		chunk("A", "1", "first text"),
		chunk("B", "1", "second text"),
	})
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, nil, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "A_art1", hits[0].ChunkID)
	assert.Equal(t, "B_art1", hits[1].ChunkID)
}

func TestIndexChunks_EncoderFailure(t *testing.T) {
	idx, err := New(&fakeEncoder{fail: true}, "")
	require.NoError(t, err)

	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.Error(t, err)
	assert.Equal(t, 0, idx.Count())
}

func TestIndexChunks_NilEncoder(t *testing.T) {
	idx, err := New(nil, "")
	require.NoError(t, err)

	_, err = idx.IndexChunks(context.Background(), testChunks())
	assert.ErrorIs(t, err, domain.ErrEncoderUnavailable)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	idx, err := New(testEncoder(), dir)
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	// All three artifacts exist.
	for _, name := range []string{vectorsFile, metadataFile, textsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// A fresh index reloads the snapshot without re-encoding.
	reloaded, err := New(&fakeEncoder{fail: true}, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Count())

	hits, err := reloaded.Search(context.Background(), []float32{1, 0, 0}, nil, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "32002R0178_art2", hits[0].ChunkID)
	assert.Equal(t, "2", hits[0].Meta.ArticleNumber)
}

func TestSnapshot_MissingArtifactStartsEmpty(t *testing.T) {
	dir := t.TempDir()

	idx, err := New(testEncoder(), dir)
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, metadataFile)))

	reloaded, err := New(testEncoder(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Count())
}

func TestSnapshot_CorruptVectorsStartsEmpty(t *testing.T) {
	dir := t.TempDir()

	idx, err := New(testEncoder(), dir)
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, vectorsFile), []byte("garbage"), 0o600))

	reloaded, err := New(testEncoder(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Count())
}

func TestSnapshot_LengthMismatchStartsEmpty(t *testing.T) {
	dir := t.TempDir()

	idx, err := New(testEncoder(), dir)
	require.NoError(t, err)
	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	// Texts list disagrees with the vector count.
	require.NoError(t, os.WriteFile(filepath.Join(dir, textsFile), []byte(`["only one"]`), 0o600))

	reloaded, err := New(testEncoder(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Count())
}

func TestIndexChunks_ReplacesWholesale(t *testing.T) {
	idx, err := New(testEncoder(), "")
	require.NoError(t, err)

	_, err = idx.IndexChunks(context.Background(), testChunks())
	require.NoError(t, err)

	_, err = idx.IndexChunks(context.Background(), []domain.Chunk{
		chunk("32015R2283", "3", "definition of food"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Count())
}

func TestEncodeDecodeVectors(t *testing.T) {
	vectors := [][]float32{{1, 2.5, -3}, {0, 0.125, 42}}

	decoded, ok := decodeVectors(encodeVectors(vectors))

	require.True(t, ok)
	assert.Equal(t, vectors, decoded)
}

func TestDecodeVectors_TruncatedPayload(t *testing.T) {
	data := encodeVectors([][]float32{{1, 2, 3}})

	_, ok := decodeVectors(data[:len(data)-2])
	assert.False(t, ok)
}

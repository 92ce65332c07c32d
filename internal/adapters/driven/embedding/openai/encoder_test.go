package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	e := New(Config{})

	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Equal(t, 1536, e.Dimensions())
}

func TestNew_KnownModelDimensions(t *testing.T) {
	e := New(Config{Model: "text-embedding-3-large"})
	assert.Equal(t, 3072, e.Dimensions())
}

func TestNew_DimensionsOverride(t *testing.T) {
	e := New(Config{Model: "nomic-embed-text", Dimensions: 768})
	assert.Equal(t, 768, e.Dimensions())
}

func TestEncodeBatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)

		// Respond out of order; the encoder restores input order by index.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.3, 0.4}, "index": 1},
				{"embedding": []float64{0.1, 0.2}, "index": 0},
			},
		})
	}))
	defer server.Close()

	e := New(Config{BaseURL: server.URL, APIKey: "test-key"})
	vectors, err := e.EncodeBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestEncodeBatch_EmptyInput(t *testing.T) {
	e := New(Config{})

	vectors, err := e.EncodeBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEncodeBatch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	}))
	defer server.Close()

	e := New(Config{BaseURL: server.URL})
	_, err := e.EncodeBatch(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEncodeBatch_MissingVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1}, "index": 0},
			},
		})
	}))
	defer server.Close()

	e := New(Config{BaseURL: server.URL})
	_, err := e.EncodeBatch(context.Background(), []string{"first", "second"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedding returned")
}

func TestEncodeBatch_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{1}, "index": 0}},
		})
	}))
	defer server.Close()

	e := New(Config{BaseURL: server.URL})
	_, err := e.EncodeBatch(context.Background(), []string{"text"})

	require.NoError(t, err)
}

// Package memory provides an in-memory similarity index over chunk
// embeddings with filtered top-k retrieval.
//
// Vectors are pre-normalized by the encoder, so cosine similarity
// reduces to a dot product and the index never renormalizes. Search is
// an exact brute-force scan; the corpus is a few thousand chunks, so
// approximate indexing would buy nothing.
//
// The index persists as three co-located artifacts (vector array,
// metadata list, text list). Reads take an immutable snapshot, so
// concurrent searches are safe while a rebuild swaps the snapshot in.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/ports/driven"
	"github.com/custodia-labs/lexroute/internal/logger"
)

// encodeBatchSize bounds one encoder call during indexing.
const encodeBatchSize = 64

// Ensure Index implements the port.
var _ driven.VectorIndex = (*Index)(nil)

// Index is the in-memory similarity index with snapshot persistence.
type Index struct {
	encoder driven.Encoder
	dir     string

	mu   sync.RWMutex
	snap *snapshot
}

// snapshot is one immutable indexed corpus. Slices are aligned by position.
type snapshot struct {
	ids     []string
	texts   []string
	metas   []domain.ChunkMeta
	vectors [][]float32
}

// New creates an index backed by the given encoder, reloading any
// persisted snapshot from dir. An empty dir disables persistence.
// A missing or inconsistent snapshot starts the index empty; a cold
// start is always a valid state.
func New(encoder driven.Encoder, dir string) (*Index, error) {
	idx := &Index{encoder: encoder, dir: dir}

	if dir != "" {
		snap, err := loadSnapshot(dir)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			logger.Debug("loaded vector index snapshot: %d chunks", len(snap.ids))
		}
		idx.snap = snap
	}

	return idx, nil
}

// IndexChunks embeds the chunks' header-prefixed text and replaces the
// index wholesale. Returns the number of chunks indexed.
func (idx *Index) IndexChunks(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if idx.encoder == nil {
		return 0, domain.ErrEncoderUnavailable
	}

	snap := &snapshot{
		ids:     make([]string, 0, len(chunks)),
		texts:   make([]string, 0, len(chunks)),
		metas:   make([]domain.ChunkMeta, 0, len(chunks)),
		vectors: make([][]float32, 0, len(chunks)),
	}

	for _, c := range chunks {
		snap.ids = append(snap.ids, c.ID())
		snap.texts = append(snap.texts, c.EmbeddingText())
		snap.metas = append(snap.metas, c.Meta())
	}

	for start := 0; start < len(snap.texts); start += encodeBatchSize {
		end := min(start+encodeBatchSize, len(snap.texts))

		vectors, err := idx.encoder.EncodeBatch(ctx, snap.texts[start:end])
		if err != nil {
			return 0, fmt.Errorf("encoding batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != end-start {
			return 0, fmt.Errorf("encoder returned %d vectors for %d texts", len(vectors), end-start)
		}
		snap.vectors = append(snap.vectors, vectors...)
	}

	if idx.dir != "" {
		if err := saveSnapshot(idx.dir, snap); err != nil {
			return 0, fmt.Errorf("persisting snapshot: %w", err)
		}
	}

	idx.mu.Lock()
	idx.snap = snap
	idx.mu.Unlock()

	return len(chunks), nil
}

// Search scores eligible chunks by dot product and returns the k best,
// sorted by descending score with ties broken by insertion order.
// An empty index or a filter matching nothing yields an empty result.
func (idx *Index) Search(_ context.Context, query []float32, documentIDs []string, k int) ([]domain.SearchHit, error) {
	idx.mu.RLock()
	snap := idx.snap
	idx.mu.RUnlock()

	if snap == nil || len(snap.ids) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != len(snap.vectors[0]) {
		return nil, fmt.Errorf("query has %d dimensions, index has %d", len(query), len(snap.vectors[0]))
	}

	var filter map[string]bool
	if len(documentIDs) > 0 {
		filter = make(map[string]bool, len(documentIDs))
		for _, id := range documentIDs {
			filter[id] = true
		}
	}

	type scored struct {
		pos   int
		score float64
	}
	var candidates []scored

	for i, vec := range snap.vectors {
		if filter != nil && !filter[snap.metas[i].DocumentID] {
			continue
		}
		candidates = append(candidates, scored{pos: i, score: dot(vec, query)})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	k = min(k, len(candidates))
	hits := make([]domain.SearchHit, 0, k)
	for _, c := range candidates[:k] {
		hits = append(hits, domain.SearchHit{
			ChunkID: snap.ids[c.pos],
			Text:    snap.texts[c.pos],
			Meta:    snap.metas[c.pos],
			Score:   c.score,
		})
	}

	return hits, nil
}

// Count returns the number of indexed chunks.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.snap == nil {
		return 0
	}
	return len(idx.snap.ids)
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// dot computes the dot product in float64 to limit accumulation error.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

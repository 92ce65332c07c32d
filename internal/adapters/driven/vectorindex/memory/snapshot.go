package memory

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// Snapshot artifact names. All three must be present and
// length-consistent to reload; anything else counts as "no snapshot".
const (
	vectorsFile  = "embeddings.bin"
	metadataFile = "metadata.json"
	textsFile    = "texts.json"
)

// saveSnapshot writes the three snapshot artifacts.
func saveSnapshot(dir string, snap *snapshot) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, vectorsFile), encodeVectors(snap.vectors), 0o600); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}

	metas, err := json.Marshal(snap.metas)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), metas, 0o600); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	texts, err := json.Marshal(snap.texts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, textsFile), texts, 0o600); err != nil {
		return fmt.Errorf("writing texts: %w", err)
	}

	return nil
}

// loadSnapshot reloads a persisted snapshot. Returns nil (no error) when
// any artifact is missing, corrupt, or the three disagree on length:
// the index then starts empty.
func loadSnapshot(dir string) (*snapshot, error) {
	vecData, err := os.ReadFile(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, ignoreNotExist(err)
	}
	metaData, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, ignoreNotExist(err)
	}
	textData, err := os.ReadFile(filepath.Join(dir, textsFile))
	if err != nil {
		return nil, ignoreNotExist(err)
	}

	vectors, ok := decodeVectors(vecData)
	if !ok {
		return nil, nil
	}

	var metas []domain.ChunkMeta
	if err := json.Unmarshal(metaData, &metas); err != nil {
		return nil, nil
	}
	var texts []string
	if err := json.Unmarshal(textData, &texts); err != nil {
		return nil, nil
	}

	if len(metas) != len(vectors) || len(texts) != len(vectors) {
		return nil, nil
	}

	snap := &snapshot{
		ids:     make([]string, len(metas)),
		texts:   texts,
		metas:   metas,
		vectors: vectors,
	}
	for i, m := range metas {
		snap.ids[i] = m.ChunkID
	}
	return snap, nil
}

// encodeVectors serialises the vector array as a little-endian header
// (count, dimensions) followed by count*dimensions float32 values.
func encodeVectors(vectors [][]float32) []byte {
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}

	buf := make([]byte, 8, 8+len(vectors)*dims*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dims))

	for _, vec := range vectors {
		for _, v := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	return buf
}

// decodeVectors is the inverse of encodeVectors. The second return is
// false when the payload does not match its header.
func decodeVectors(data []byte) ([][]float32, bool) {
	if len(data) < 8 {
		return nil, false
	}
	count := int(binary.LittleEndian.Uint32(data[0:4]))
	dims := int(binary.LittleEndian.Uint32(data[4:8]))

	if len(data) != 8+count*dims*4 {
		return nil, false
	}

	vectors := make([][]float32, count)
	offset := 8
	for i := range vectors {
		vec := make([]float32, dims)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
			offset += 4
		}
		vectors[i] = vec
	}
	return vectors, true
}

func ignoreNotExist(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

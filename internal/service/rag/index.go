package rag

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Index is a brute-force cosine-similarity index over document chunks.
// Vectors are L2-normalized on insert so similarity reduces to a dot
// product. The whole index is gob-encoded to a single file.
type Index struct {
	Embedder  string
	Dimension int
	Chunks    []Chunk
	Vectors   [][]float64
	TFIDF     *TFIDFState
}

func (ix *Index) add(chunk Chunk, vector []float64) error {
	if ix.Dimension == 0 {
		ix.Dimension = len(vector)
	}
	if len(vector) != ix.Dimension {
		return fmt.Errorf("vector dimension mismatch: want %d got %d", ix.Dimension, len(vector))
	}
	normalize(vector)
	ix.Chunks = append(ix.Chunks, chunk)
	ix.Vectors = append(ix.Vectors, vector)
	return nil
}

// Search returns up to k chunks ordered by descending similarity to the
// (normalized) query vector.
func (ix *Index) Search(vector []float64, k int) []Chunk {
	if k <= 0 {
		k = 4
	}
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(ix.Vectors))
	for i, v := range ix.Vectors {
		scores[i] = scored{idx: i, score: dot(v, vector)}
	}
	sort.Slice(scores, func(a, b int) bool { return scores[a].score > scores[b].score })
	if k > len(scores) {
		k = len(scores)
	}
	out := make([]Chunk, 0, k)
	for _, s := range scores[:k] {
		out = append(out, ix.Chunks[s.idx])
	}
	return out
}

// Save writes the index to path, creating parent directories as needed.
func (ix *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(ix); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// LoadIndex reads a previously saved index from path.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()
	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if len(ix.Chunks) != len(ix.Vectors) {
		return nil, errors.New("corrupt index: chunk/vector count mismatch")
	}
	return &ix, nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

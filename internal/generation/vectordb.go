package generation

import (
	"context"
	"fmt"
	"sort"
)

// VectorIndex is an in-memory cosine similarity index over embedded chunks.
// It stands in for the external vector database the deployed portal queries.
type VectorIndex struct {
	chunks []Chunk
	dim    int
}

// Match is one index query result.
type Match struct {
	ID    string
	Text  string
	Score float32
}

// Len returns the number of indexed chunks.
func (ix *VectorIndex) Len() int { return len(ix.chunks) }

// Query returns the top-k chunks by cosine similarity to the given vector.
// Vectors are normalized at build time, so the dot product is the cosine.
func (ix *VectorIndex) Query(vec []float32, k int) ([]Match, error) {
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("query vector has dimension %d, index has %d", len(vec), ix.dim)
	}

	matches := make([]Match, 0, len(ix.chunks))
	for _, chunk := range ix.chunks {
		var dot float32
		for i, v := range chunk.Vector {
			dot += v * vec[i]
		}
		matches = append(matches, Match{ID: chunk.ID, Text: chunk.Text, Score: dot})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// MemoryIndexer loads embedding sets into in-memory indexes.
type MemoryIndexer struct{}

// Setup builds the index and sanity-queries it with its own first vector so
// a broken embedding set fails here rather than after deployment.
func (m *MemoryIndexer) Setup(_ context.Context, set *EmbeddingSet) (*VectorIndex, error) {
	if set == nil || len(set.Chunks) == 0 {
		return nil, fmt.Errorf("embedding set is empty")
	}
	for _, chunk := range set.Chunks {
		if len(chunk.Vector) != set.Dim {
			return nil, fmt.Errorf("chunk %s has dimension %d, expected %d", chunk.ID, len(chunk.Vector), set.Dim)
		}
	}

	ix := &VectorIndex{chunks: set.Chunks, dim: set.Dim}
	if _, err := ix.Query(set.Chunks[0].Vector, 1); err != nil {
		return nil, fmt.Errorf("index self-check failed: %w", err)
	}
	return ix, nil
}

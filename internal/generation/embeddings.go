package generation

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultEmbeddingDim is the vector width of the simulated embedder.
const DefaultEmbeddingDim = 128

// HashingEmbedder produces deterministic feature-hashed vectors for portal
// content. It stands in for the real embedding service: same chunking, same
// vector shape, no network.
type HashingEmbedder struct {
	Dim int
}

// Build chunks the content and embeds every chunk.
func (e *HashingEmbedder) Build(_ context.Context, content *PortalContent) (*EmbeddingSet, error) {
	if content == nil {
		return nil, fmt.Errorf("portal content is required")
	}
	dim := e.Dim
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}

	chunks := chunkContent(content)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no embeddable content in CV")
	}
	for i := range chunks {
		chunks[i].Vector = embedText(chunks[i].Text, dim)
	}

	return &EmbeddingSet{Chunks: chunks, Dim: dim}, nil
}

// chunkContent splits portal content into retrieval units: one chunk for the
// summary, one per skill group, one per section.
func chunkContent(content *PortalContent) []Chunk {
	var chunks []Chunk
	add := func(id, text string) {
		text = strings.TrimSpace(text)
		if text != "" {
			chunks = append(chunks, Chunk{ID: fmt.Sprintf("%s_%d", id, len(chunks)), Text: text})
		}
	}

	add("summary", content.Summary)
	add("headline", content.Headline)
	if len(content.Skills) > 0 {
		add("skills", strings.Join(content.Skills, ", "))
	}
	for _, section := range content.Sections {
		add("section", section)
	}
	return chunks
}

// embedText maps text to a unit vector by hashing tokens into buckets.
func embedText(text string, dim int) []float32 {
	vec := make([]float32, dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum32()
		bucket := int(sum % uint32(dim))
		// Alternate sign from the next hash bit to avoid all-positive vectors.
		if sum&(1<<31) != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

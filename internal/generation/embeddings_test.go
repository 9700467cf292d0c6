package generation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashingEmbedderBuild(t *testing.T) {
	e := &HashingEmbedder{Dim: 32}

	set, err := e.Build(context.Background(), testContent())
	require.NoError(t, err)
	assert.Equal(t, 32, set.Dim)
	// summary + headline + skills + one section
	require.Len(t, set.Chunks, 4)

	for _, chunk := range set.Chunks {
		require.Len(t, chunk.Vector, 32, "chunk %s", chunk.ID)

		var norm float64
		for _, v := range chunk.Vector {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5, "chunk %s is not unit length", chunk.ID)
	}
}

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := &HashingEmbedder{}

	first, err := e.Build(context.Background(), testContent())
	require.NoError(t, err)
	second, err := e.Build(context.Background(), testContent())
	require.NoError(t, err)

	require.Equal(t, len(first.Chunks), len(second.Chunks))
	for i := range first.Chunks {
		assert.Equal(t, first.Chunks[i].Vector, second.Chunks[i].Vector)
	}
}

func TestHashingEmbedderDefaultDim(t *testing.T) {
	e := &HashingEmbedder{}

	set, err := e.Build(context.Background(), testContent())
	require.NoError(t, err)
	assert.Equal(t, DefaultEmbeddingDim, set.Dim)
}

func TestHashingEmbedderEmptyContent(t *testing.T) {
	e := &HashingEmbedder{}

	_, err := e.Build(context.Background(), &PortalContent{})
	assert.Error(t, err)

	_, err = e.Build(context.Background(), nil)
	assert.Error(t, err)
}

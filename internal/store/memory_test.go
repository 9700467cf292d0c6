package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	docs := NewMemoryStore()

	_, err := docs.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMergeCreates(t *testing.T) {
	docs := NewMemoryStore()

	err := docs.Merge(context.Background(), "d1", map[string]any{"a": "x"})
	require.NoError(t, err)

	doc, err := docs.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "x", doc["a"])
}

func TestMemoryStoreMergeIsFieldLevel(t *testing.T) {
	docs := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{"a": "x", "b": "y"}))
	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{"b": "z"}))

	doc, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "x", doc["a"], "untouched field survives")
	assert.Equal(t, "z", doc["b"], "merged field overwritten")
}

func TestMemoryStoreMergeNestedMaps(t *testing.T) {
	docs := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{
		"urls": map[string]any{"portal": "p", "chat": "c"},
	}))
	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{
		"urls": map[string]any{"chat": "c2"},
	}))

	doc, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	urls, ok := doc["urls"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p", urls["portal"], "nested untouched field survives")
	assert.Equal(t, "c2", urls["chat"])
}

func TestMemoryStoreMergeReplacesSlices(t *testing.T) {
	docs := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{
		"steps": []any{"A", "B"},
	}))
	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{
		"steps": []any{"C"},
	}))

	doc, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []any{"C"}, doc["steps"])
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	docs := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, docs.Merge(ctx, "d1", map[string]any{"a": "x"}))

	doc, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	doc["a"] = "mutated"

	again, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "x", again["a"], "caller mutation must not leak into the store")
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashgenius/internal/models"
)

func indexedDocs() []models.Document {
	return []models.Document{
		{
			ID:    "doc_a",
			Title: "Alpha",
			Chunks: []models.Chunk{
				{Text: "exact match", Embedding: []float32{1, 0}},
				{Text: "close match", Embedding: []float32{0.8, 0.6}},
			},
		},
		{
			ID:    "doc_b",
			Title: "Beta",
			Chunks: []models.Chunk{
				{Text: "orthogonal", Embedding: []float32{0, 1}},
			},
		},
	}
}

func TestIndexSearch(t *testing.T) {
	ix, err := NewMemoryIndex()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ix.Rebuild(ctx, indexedDocs()))

	results, err := ix.Search(ctx, []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "exact match", results[0].ChunkText)
	assert.Equal(t, "Alpha", results[0].DocumentTitle)
	assert.Equal(t, "doc_a", results[0].DocumentID)
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-3)
	assert.Equal(t, "close match", results[1].ChunkText)
	for _, r := range results {
		assert.Greater(t, r.Similarity, float32(0.5))
	}
}

func TestIndexSearchEmpty(t *testing.T) {
	ix, err := NewMemoryIndex()
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestIndexRebuildReplacesContents(t *testing.T) {
	ix, err := NewMemoryIndex()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ix.Rebuild(ctx, indexedDocs()))
	require.NoError(t, ix.Rebuild(ctx, indexedDocs()[1:]))

	results, err := ix.Search(ctx, []float32{0, 1}, 5, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc_b", results[0].DocumentID)
}

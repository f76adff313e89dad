package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashgenius/internal/config"
	"flashgenius/internal/models"
)

func openTestKV(t *testing.T) (*KV, *config.StoreConfig) {
	t.Helper()
	cfg := &config.StoreConfig{Path: filepath.Join(t.TempDir(), "kb.db")}
	kv, err := OpenKV(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, cfg
}

func TestKVLoadEmpty(t *testing.T) {
	kv, _ := openTestKV(t)
	docs, err := kv.LoadDocuments(context.Background())
	require.NoError(t, err)
	assert.Nil(t, docs)
}

func TestKVDocumentsRoundTrip(t *testing.T) {
	kv, cfg := openTestKV(t)
	ctx := context.Background()

	saved := []models.Document{
		{
			ID:    "doc_1",
			Title: "Biology Notes",
			Date:  time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
			Chunks: []models.Chunk{
				{Text: "Cells are the basic unit of life.", Embedding: []float32{0.1, -0.5, 0.25}},
				{Text: "Mitochondria produce ATP.", Embedding: []float32{0.9, 0.0, -0.125}},
			},
		},
		{
			ID:    "doc_2",
			Title: "History",
			Date:  time.Date(2024, 11, 2, 18, 0, 0, 0, time.UTC),
			Chunks: []models.Chunk{
				{Text: "The revolution began in 1789.", Embedding: []float32{0.0, 1.0, 0.0}},
			},
		},
	}
	require.NoError(t, kv.SaveDocuments(ctx, saved))

	// reopen the same file, as startup does
	require.NoError(t, kv.Close())
	reopened, err := OpenKV(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for i := range saved {
		assert.Equal(t, saved[i].ID, loaded[i].ID)
		assert.Equal(t, saved[i].Title, loaded[i].Title)
		assert.True(t, saved[i].Date.Equal(loaded[i].Date))
		assert.Equal(t, saved[i].Chunks, loaded[i].Chunks)
	}
}

func TestKVSaveOverwrites(t *testing.T) {
	kv, _ := openTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.SaveDocuments(ctx, []models.Document{{ID: "a", Title: "A"}}))
	require.NoError(t, kv.SaveDocuments(ctx, []models.Document{{ID: "b", Title: "B"}}))

	docs, err := kv.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)
}

func TestKVDeckRoundTrip(t *testing.T) {
	kv, _ := openTestKV(t)
	ctx := context.Background()

	deck, err := kv.LoadDeck(ctx)
	require.NoError(t, err)
	assert.Empty(t, deck.Cards)

	saved := models.Deck{
		Cards: []models.FlashCard{
			{Question: "Q1", Answer: "A1 [1]", Sources: []models.CardSource{{Title: "Biology Notes", Text: "chunk"}}},
			{Question: "Q2", Answer: "A2"},
		},
		Difficulty: "advanced",
		Created:    time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC),
	}
	require.NoError(t, kv.SaveDeck(ctx, saved))

	deck, err = kv.LoadDeck(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.Cards, deck.Cards)
	assert.Equal(t, "advanced", deck.Difficulty)
	assert.True(t, saved.Created.Equal(deck.Created))
}

func TestKVSyntheticPreferenceRoundTrip(t *testing.T) {
	kv, _ := openTestKV(t)
	ctx := context.Background()

	enabled, err := kv.LoadSyntheticEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled, "unset preference defaults to enabled")

	require.NoError(t, kv.SaveSyntheticEnabled(ctx, false))
	enabled, err = kv.LoadSyntheticEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

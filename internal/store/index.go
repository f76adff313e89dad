package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"flashgenius/internal/models"
)

const indexCollectionName = "flashgenius-kb"

// Index mirrors the store's chunks into a chromem collection so searches
// over large knowledge bases don't rescan every vector in Go.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewMemoryIndex creates a non-persistent index, rebuilt from the KV copy
// at startup.
func NewMemoryIndex() (*Index, error) {
	return newIndex(chromem.NewDB())
}

// NewPersistentIndex creates an index stored under path.
func NewPersistentIndex(path string) (*Index, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}
	return newIndex(db)
}

func newIndex(db *chromem.DB) (*Index, error) {
	collection, err := db.GetOrCreateCollection(indexCollectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create index collection: %w", err)
	}
	return &Index{db: db, collection: collection}, nil
}

// Rebuild replaces the index contents with the given documents.
func (ix *Index) Rebuild(ctx context.Context, docs []models.Document) error {
	if err := ix.db.DeleteCollection(indexCollectionName); err != nil {
		return fmt.Errorf("failed to reset index collection: %w", err)
	}
	collection, err := ix.db.GetOrCreateCollection(indexCollectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate index collection: %w", err)
	}
	ix.collection = collection

	var entries []chromem.Document
	for _, doc := range docs {
		for i, chunk := range doc.Chunks {
			entries = append(entries, chromem.Document{
				ID:      doc.ID + "-" + strconv.Itoa(i),
				Content: chunk.Text,
				Metadata: map[string]string{
					"document_id":    doc.ID,
					"document_title": doc.Title,
				},
				Embedding: chunk.Embedding,
			})
		}
	}
	if len(entries) == 0 {
		return nil
	}
	if err := ix.collection.AddDocuments(ctx, entries, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to index documents: %w", err)
	}
	return nil
}

// Search ranks indexed chunks against the query embedding with the same
// filter semantics as the in-memory scan: similarity strictly above
// threshold, best first, at most topK.
func (ix *Index) Search(ctx context.Context, queryVec []float32, topK int, threshold float32) ([]models.SearchResult, error) {
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	n := topK
	if n > count {
		n = count
	}

	hits, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVec,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	var results []models.SearchResult
	for _, hit := range hits {
		if hit.Similarity <= threshold {
			continue
		}
		results = append(results, models.SearchResult{
			DocumentID:    hit.Metadata["document_id"],
			DocumentTitle: hit.Metadata["document_title"],
			ChunkText:     hit.Content,
			Similarity:    hit.Similarity,
		})
	}
	return results, nil
}

// Package store owns the on-device knowledge base: uploaded documents split
// into embedded chunks, a durable copy in local key-value storage, and the
// retrieval engine that ranks chunks against a query.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"flashgenius/internal/chunker"
	"flashgenius/internal/embedding"
	"flashgenius/internal/helper"
	"flashgenius/internal/models"
	"flashgenius/internal/vector"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyDocument    = errors.New("document contains no usable text")
)

const (
	defaultThreshold = 0.5
	defaultTopK      = 5
)

// Persister is the durable copy of the store. Implementations must
// round-trip documents exactly.
type Persister interface {
	LoadDocuments(ctx context.Context) ([]models.Document, error)
	SaveDocuments(ctx context.Context, docs []models.Document) error
	LoadSyntheticEnabled(ctx context.Context) (bool, error)
	SaveSyntheticEnabled(ctx context.Context, enabled bool) error
	Close() error
}

// Store holds the session's documents in memory and keeps the durable copy
// and the optional vector index in sync on every mutation.
type Store struct {
	mu        sync.RWMutex
	docs      []models.Document
	embedder  embedding.Provider
	persister Persister
	index     *Index

	threshold float32
	topK      int
}

// Option tweaks store construction.
type Option func(*Store)

// WithRetrieval overrides the similarity threshold and result cap.
func WithRetrieval(threshold float64, topK int) Option {
	return func(s *Store) {
		if threshold > 0 {
			s.threshold = float32(threshold)
		}
		if topK > 0 {
			s.topK = topK
		}
	}
}

// WithIndex attaches a vector index mirror used to answer searches.
func WithIndex(index *Index) Option {
	return func(s *Store) {
		s.index = index
	}
}

func New(embedder embedding.Provider, persister Persister, opts ...Option) *Store {
	s := &Store{
		embedder:  embedder,
		persister: persister,
		threshold: defaultThreshold,
		topK:      defaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the durable copy into memory. Called once at startup.
func (s *Store) Load(ctx context.Context) error {
	docs, err := s.persister.LoadDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()

	log.Debug().Int("documents", len(docs)).Msg("Knowledge base loaded")

	if s.index != nil {
		if err := s.index.Rebuild(ctx, docs); err != nil {
			return fmt.Errorf("failed to rebuild vector index: %w", err)
		}
	}
	return nil
}

// Add chunks and embeds text, appends the document and persists the store.
// An embedding failure fails the whole operation; no placeholder vectors are
// ever stored.
func (s *Store) Add(ctx context.Context, title, text string) (models.Document, error) {
	chunks := chunker.Split(text)
	if len(chunks) == 0 {
		return models.Document{}, ErrEmptyDocument
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to embed document: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return models.Document{}, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}
	for i, emb := range embeddings {
		if vector.IsZero(emb) {
			return models.Document{}, fmt.Errorf("embedder returned a zero vector for chunk %d", i)
		}
	}

	id, err := helper.GenerateDocumentID()
	if err != nil {
		return models.Document{}, err
	}

	doc := models.Document{
		ID:     id,
		Title:  title,
		Date:   time.Now().UTC(),
		Chunks: make([]models.Chunk, len(chunks)),
	}
	for i, c := range chunks {
		doc.Chunks[i] = models.Chunk{Text: c, Embedding: embeddings[i]}
	}

	s.mu.Lock()
	if err := s.checkDimensionsLocked(doc); err != nil {
		s.mu.Unlock()
		return models.Document{}, err
	}
	s.docs = append(s.docs, doc)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persistAndReindex(ctx, snapshot); err != nil {
		return models.Document{}, err
	}

	log.Info().Str("id", doc.ID).Str("title", title).Int("chunks", len(doc.Chunks)).Msg("Document added to knowledge base")
	return doc, nil
}

// Remove deletes a document by id and persists the store.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	kept := s.docs[:0]
	for _, d := range s.docs {
		if d.ID == id {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	s.docs = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	if err := s.persistAndReindex(ctx, snapshot); err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("Document removed from knowledge base")
	return nil
}

// Documents returns a copy of the current document list.
func (s *Store) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len reports the number of documents in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search embeds the query and returns chunks with similarity strictly above
// the threshold, best first, capped at topK.
func (s *Store) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if s.Len() == 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	if s.index != nil {
		return s.index.Search(ctx, queryVec, s.topK, s.threshold)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.SearchResult
	for _, doc := range s.docs {
		for _, chunk := range doc.Chunks {
			sim := vector.CosineSimilarity(queryVec, chunk.Embedding)
			if sim > s.threshold {
				results = append(results, models.SearchResult{
					DocumentID:    doc.ID,
					DocumentTitle: doc.Title,
					ChunkText:     chunk.Text,
					Similarity:    sim,
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > s.topK {
		results = results[:s.topK]
	}
	return results, nil
}

// SyntheticEnabled reads the persisted synthetic-data preference.
func (s *Store) SyntheticEnabled(ctx context.Context) (bool, error) {
	return s.persister.LoadSyntheticEnabled(ctx)
}

// SetSyntheticEnabled persists the synthetic-data preference.
func (s *Store) SetSyntheticEnabled(ctx context.Context, enabled bool) error {
	return s.persister.SaveSyntheticEnabled(ctx, enabled)
}

// Close releases the durable storage handle.
func (s *Store) Close() error {
	return s.persister.Close()
}

func (s *Store) persistAndReindex(ctx context.Context, snapshot []models.Document) error {
	if err := s.persister.SaveDocuments(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save knowledge base: %w", err)
	}
	if s.index != nil {
		if err := s.index.Rebuild(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to rebuild vector index: %w", err)
		}
	}
	return nil
}

func (s *Store) snapshotLocked() []models.Document {
	out := make([]models.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// checkDimensionsLocked enforces uniform embedding dimensionality, without
// which similarity scores are meaningless.
func (s *Store) checkDimensionsLocked(doc models.Document) error {
	dim := 0
	for _, d := range s.docs {
		if len(d.Chunks) > 0 {
			dim = len(d.Chunks[0].Embedding)
			break
		}
	}
	for _, c := range doc.Chunks {
		if dim == 0 {
			dim = len(c.Embedding)
		}
		if len(c.Embedding) != dim {
			return fmt.Errorf("embedding dimensionality mismatch: got %d, store uses %d", len(c.Embedding), dim)
		}
	}
	return nil
}

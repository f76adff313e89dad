package models

import "time"

// Chunk is a contiguous slice of document text with its embedding vector.
// All chunks in a store must share the embedder's output dimensionality.
type Chunk struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// Document is an uploaded knowledge-base entry split into embedded chunks.
type Document struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	Chunks []Chunk   `json:"chunks"`
}

// SearchResult is a retrieval hit, transient and ordered by descending
// similarity.
type SearchResult struct {
	DocumentID    string  `json:"documentId"`
	DocumentTitle string  `json:"documentTitle"`
	ChunkText     string  `json:"chunkText"`
	Similarity    float32 `json:"similarity"`
}

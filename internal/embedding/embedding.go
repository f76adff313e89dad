// Package embedding wraps the hosted sentence-embedding model behind a
// small provider interface so retrieval and tests don't care which service
// produces the vectors.
package embedding

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"flashgenius/internal/config"
)

// Provider converts text into fixed-length numeric vectors. All vectors
// from one provider share the same dimensionality.
type Provider interface {
	embeddings.Embedder
}

// NewProvider creates an embedder against an OpenAI-compatible endpoint.
// A failure here fails the calling operation; ingestion and search never
// proceed with placeholder vectors.
func NewProvider(llmConfig *config.LLMConfig) (Provider, error) {
	log.Debug().
		Str("base_url", llmConfig.BaseURL).
		Str("embedding_model", llmConfig.Model).
		Msg("Initializing embedder")

	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithEmbeddingModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return embedder, nil
}

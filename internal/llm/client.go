// Package llm talks to a hosted chat-completion endpoint and turns its
// JSON-shaped replies into flashcard and study-aid records.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"flashgenius/internal/config"
	"flashgenius/internal/models"
)

// Doer issues HTTP requests. *http.Client satisfies it; tests substitute a
// canned transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a chat-completion API client.
type Client struct {
	cfg  *config.LLMConfig
	http Doer
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithDoer is used by tests to avoid the network.
func NewClientWithDoer(cfg *config.LLMConfig, doer Doer) *Client {
	return &Client{cfg: cfg, http: doer}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends prompt with the fixed system instruction and returns the
// model's raw message content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: models.SystemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	payload.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(c.cfg.Key, "Bearer "))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat completion API responded with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion response contained no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	log.Debug().Int("length", len(content)).Msg("Received chat completion")
	return content, nil
}

// GenerateFlashcards runs the prompt and parses the reply into cards.
func (c *Client) GenerateFlashcards(ctx context.Context, prompt string) ([]models.FlashCard, error) {
	content, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseFlashcards(content)
}

// GenerateStudyAid runs the prompt and parses the reply into examples plus a
// diagram, padding with fallback content when the model under-delivers.
func (c *Client) GenerateStudyAid(ctx context.Context, prompt, concept string, count int) (*models.StudyAid, error) {
	content, err := c.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("concept", concept).Msg("Study aid generation failed, using fallback content")
		return FallbackStudyAid(concept, count), nil
	}
	return ParseStudyAid(content, concept, count), nil
}

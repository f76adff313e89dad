package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"flashgenius/internal/config"
)

// Doer issues HTTP requests; tests substitute a canned transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TTSClient requests synthesized audio from the hosted text-to-speech
// endpoint.
type TTSClient struct {
	cfg  *config.SpeechConfig
	http Doer
}

func NewTTSClient(cfg *config.SpeechConfig) *TTSClient {
	return &TTSClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewTTSClientWithDoer is used by tests to avoid the network.
func NewTTSClientWithDoer(cfg *config.SpeechConfig, doer Doer) *TTSClient {
	return &TTSClient{cfg: cfg, http: doer}
}

type ttsRequest struct {
	Text          string `json:"text"`
	ModelID       string `json:"model_id"`
	VoiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
	} `json:"voice_settings"`
}

// Synthesize returns the raw audio bytes for text.
func (c *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := ttsRequest{Text: text, ModelID: c.cfg.ModelID}
	payload.VoiceSettings.Stability = c.cfg.Stability
	payload.VoiceSettings.SimilarityBoost = c.cfg.SimilarityBoost

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, c.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.Key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
			return nil, fmt.Errorf("speech API error: %s", apiErr.Detail)
		}
		return nil, fmt.Errorf("speech API responded with status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech API returned empty audio")
	}
	return audio, nil
}

// Player plays raw audio bytes, blocking until done.
type Player interface {
	Play(ctx context.Context, audio []byte, started func()) error
}

// HostedSynthesizer narrates via the hosted TTS service and a local audio
// player.
type HostedSynthesizer struct {
	client *TTSClient
	player Player
}

func NewHostedSynthesizer(client *TTSClient, player Player) *HostedSynthesizer {
	return &HostedSynthesizer{client: client, player: player}
}

func (h *HostedSynthesizer) Speak(ctx context.Context, text string, started func()) error {
	audio, err := h.client.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return h.player.Play(ctx, audio, started)
}

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLMConfig points at an OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SpeechConfig covers the hosted text-to-speech service and the local
// fallback commands.
type SpeechConfig struct {
	BaseURL         string  `yaml:"base_url"`
	Key             string  `yaml:"key"`
	VoiceID         string  `yaml:"voice_id"`
	ModelID         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
	PlayerCommand   string  `yaml:"player_command"`
	SynthCommand    string  `yaml:"synth_command"`
}

// VoiceConfig covers on-device speech recognition.
type VoiceConfig struct {
	RecognizerCommand string `yaml:"recognizer_command"`
	Locale            string `yaml:"locale"`
}

// StoreConfig covers the on-device knowledge base.
type StoreConfig struct {
	Path           string `yaml:"path"`
	Debug          bool   `yaml:"debug"`
	UseVectorIndex bool   `yaml:"use_vector_index"`
	IndexPath      string `yaml:"index_path"`
}

// RetrievalConfig tunes context selection.
type RetrievalConfig struct {
	Threshold float64 `yaml:"threshold"`
	TopK      int     `yaml:"top_k"`
}

type Config struct {
	Chat      LLMConfig       `yaml:"chat"`
	EmbedLLM  LLMConfig       `yaml:"embedding"`
	Speech    SpeechConfig    `yaml:"speech"`
	Voice     VoiceConfig     `yaml:"voice"`
	Store     StoreConfig     `yaml:"store"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	LogLevel  string          `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Chat: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		EmbedLLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
		},
		Speech: SpeechConfig{
			BaseURL:         "https://api.elevenlabs.io",
			VoiceID:         "AZnzlk1XvdvUeBnXmlld",
			ModelID:         "eleven_monolingual_v1",
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
		Voice: VoiceConfig{
			Locale: "en-US",
		},
		Store: StoreConfig{
			Path:      "./flashgenius.db",
			IndexPath: "./flashgenius-index",
		},
		Retrieval: RetrievalConfig{
			Threshold: 0.5,
			TopK:      5,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then
// applies environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional, real environment always wins
	_ = godotenv.Load()
	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Chat.Key = v
		if cfg.EmbedLLM.Key == "" {
			cfg.EmbedLLM.Key = v
		}
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
		cfg.EmbedLLM.BaseURL = v
	}
	if v := os.Getenv("ELEVEN_LABS_API_KEY"); v != "" {
		cfg.Speech.Key = v
	}
	if v := os.Getenv("ELEVEN_LABS_VOICE_ID"); v != "" {
		cfg.Speech.VoiceID = v
	}
	if v := os.Getenv("FLASHGENIUS_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("FLASHGENIUS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

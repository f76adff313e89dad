package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flashgenius/internal/embedding"
	"flashgenius/internal/generate"
	"flashgenius/internal/llm"
	"flashgenius/internal/models"
	"flashgenius/internal/speech"
	"flashgenius/internal/store"
	"flashgenius/internal/voice"
)

func openKV(ctx context.Context) (*store.KV, error) {
	return store.OpenKV(ctx, &cfg.Store)
}

// openStore builds the knowledge base on top of an already open KV. The KV
// is owned by the store afterwards; closing the store closes it.
func openStore(ctx context.Context, kv *store.KV) (*store.Store, error) {
	embedder, err := embedding.NewProvider(&cfg.EmbedLLM)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{store.WithRetrieval(cfg.Retrieval.Threshold, cfg.Retrieval.TopK)}
	if cfg.Store.UseVectorIndex {
		index, err := store.NewPersistentIndex(cfg.Store.IndexPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithIndex(index))
	}

	s := store.New(embedder, kv, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(kb *store.Store) *generate.Session {
	client := llm.NewClient(&cfg.Chat)
	if kb == nil {
		return generate.NewSession(client, nil)
	}
	return generate.NewSession(client, kb)
}

func newSpeaker() *speech.Speaker {
	hosted := speech.NewHostedSynthesizer(speech.NewTTSClient(&cfg.Speech), speech.NewExecPlayer(&cfg.Speech))
	local := speech.NewLocalSynthesizer(&cfg.Speech)
	return speech.NewSpeaker(hosted, local)
}

func newVoiceController(generateFunc func(context.Context, string)) *voice.Controller {
	recognizer := voice.NewExecRecognizer(&cfg.Voice)
	confirmer := speech.NewLocalSynthesizer(&cfg.Speech)
	return voice.NewController(recognizer, confirmer, cfg.Voice.Locale, generateFunc)
}

func saveDeck(ctx context.Context, kv *store.KV, cards []models.FlashCard, difficulty string) {
	deck := models.Deck{Cards: cards, Difficulty: difficulty, Created: time.Now()}
	if err := kv.SaveDeck(ctx, deck); err != nil {
		log.Warn().Err(err).Msg("Failed to save deck")
	}
}

func printDeck(cmd *cobra.Command, cards []models.FlashCard) {
	for i, card := range cards {
		cmd.Printf("Card %d:\n", i+1)
		cmd.Printf("Q: %s\n", card.Question)
		cmd.Printf("A: %s\n", card.Answer)
		if len(card.Sources) > 0 {
			cmd.Println("Sources:")
			for _, source := range card.Sources {
				cmd.Printf("- %s\n", source.Title)
			}
		}
		cmd.Println()
	}
}

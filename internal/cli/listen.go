package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flashgenius/internal/generate"
	"flashgenius/internal/store"
	"flashgenius/internal/voice"
)

var (
	listenCount      int
	listenDifficulty string
	listenUseKB      bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Speak a topic and get flashcards for it",
	Long: `Captures a topic from the microphone, confirms it aloud, and generates
flashcards for it.`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().IntVarP(&listenCount, "count", "n", 5, "number of cards")
	listenCmd.Flags().StringVarP(&listenDifficulty, "difficulty", "d", "intermediate", "basic, intermediate, advanced or expert")
	listenCmd.Flags().BoolVar(&listenUseKB, "kb", false, "ground cards in the knowledge base")
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kv, err := openKV(ctx)
	if err != nil {
		return err
	}

	var kb *store.Store
	if listenUseKB {
		kb, err = openStore(ctx, kv)
		if err != nil {
			_ = kv.Close()
			return err
		}
		defer kb.Close()
	} else {
		defer kv.Close()
	}

	session := newSession(kb)
	generateFromTranscript := func(genCtx context.Context, transcript string) {
		cards, err := session.Generate(genCtx, transcript, generate.Options{
			Count:        listenCount,
			Difficulty:   listenDifficulty,
			UseKnowledge: listenUseKB,
		})
		if err != nil {
			log.Error().Err(err).Msg("Generation from transcript failed")
			cmd.PrintErrln("There was an error generating your flashcards:", err)
			return
		}
		saveDeck(genCtx, kv, cards, listenDifficulty)
		printDeck(cmd, cards)
	}

	controller := newVoiceController(generateFromTranscript)
	hooks := voice.Hooks{
		OnState: func(state voice.State) {
			switch state {
			case voice.StateInitializing:
				cmd.Println("Initializing...")
			case voice.StateListening:
				cmd.Println("Listening...")
			case voice.StateProcessing:
				cmd.Println("Processing...")
			}
		},
		OnTranscript: func(transcript string) {
			cmd.Printf("Heard: %q\n", transcript)
		},
		OnNotice: func(msg string) {
			cmd.Println(msg)
		},
	}
	return controller.Listen(ctx, hooks)
}

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"flashgenius/internal/speech"
)

var speakCard bool

var speakCmd = &cobra.Command{
	Use:   "speak [text...]",
	Short: "Narrate text aloud",
	Long: `Narrates the given text using the hosted voice, falling back to on-device
synthesis when the service is unavailable. With --card the current card's
question is narrated instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text := strings.TrimSpace(strings.Join(args, " "))
		if speakCard {
			kv, err := openKV(ctx)
			if err != nil {
				return err
			}
			deck, err := kv.LoadDeck(ctx)
			closeErr := kv.Close()
			if err != nil {
				return err
			}
			if closeErr != nil {
				return closeErr
			}
			if len(deck.Cards) == 0 {
				return errors.New("no flashcards have been generated yet")
			}
			text = deck.Cards[0].Question
		}
		if text == "" {
			return errors.New("nothing to speak")
		}

		return newSpeaker().Speak(ctx, text, speech.Events{
			OnStart: func() { cmd.Println("Speaking...") },
		})
	},
}

func init() {
	speakCmd.Flags().BoolVar(&speakCard, "card", false, "narrate the first card of the last generated deck")
	rootCmd.AddCommand(speakCmd)
}

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flashgenius/internal/store"
	"flashgenius/internal/tui"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Open the interactive study screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kv, err := openKV(ctx)
		if err != nil {
			return err
		}

		// the knowledge base needs an embedding provider; without one the
		// screen still works, just without retrieval
		var kb *store.Store
		var library tui.Library
		if openedKB, err := openStore(ctx, kv); err != nil {
			log.Warn().Err(err).Msg("Knowledge base unavailable, continuing without it")
			defer kv.Close()
		} else {
			kb = openedKB
			library = kb
			defer kb.Close()
		}

		session := newSession(kb)
		speaker := newSpeaker()
		// generation is driven by the screen itself once the transcript
		// arrives
		voiceCtl := newVoiceController(func(context.Context, string) {})

		deck, err := kv.LoadDeck(ctx)
		if err == nil && len(deck.Cards) > 0 {
			session.Restore(deck.Cards, deck.Difficulty)
		}

		model := tui.New(ctx, session, library, speaker, voiceCtl)
		_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
}

package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"flashgenius/internal/generate"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the last generated deck as a text file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, created, err := restoreSession(cmd)
		if err != nil {
			return err
		}

		content, err := session.RenderDownload(created)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOutput, []byte(content), 0o644); err != nil {
			return err
		}
		cmd.Printf("Saved %d cards to %s\n", session.Len(), exportOutput)
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the last generated deck as shareable text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := restoreSession(cmd)
		if err != nil {
			return err
		}

		text, err := session.RenderShare()
		if err != nil {
			return err
		}
		cmd.Print(text)
		return nil
	},
}

// restoreSession loads the saved deck into a fresh session.
func restoreSession(cmd *cobra.Command) (*generate.Session, time.Time, error) {
	ctx := cmd.Context()

	kv, err := openKV(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer kv.Close()

	deck, err := kv.LoadDeck(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	session := newSession(nil)
	session.Restore(deck.Cards, deck.Difficulty)
	created := deck.Created
	if created.IsZero() {
		created = time.Now()
	}
	return session, created, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "flashcards.txt", "output file")
	rootCmd.AddCommand(exportCmd, shareCmd)
}

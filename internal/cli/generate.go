package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flashgenius/internal/generate"
	"flashgenius/internal/parser"
	"flashgenius/internal/store"
)

var (
	genCount      int
	genDifficulty string
	genUseKB      bool
	genMaterial   string
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate flashcards for a topic or learning material",
	Long: `Generates flashcards from a short topic or, with --material, from a
document. With --kb the cards are grounded in your knowledge base and cite
their sources.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 5, "number of cards")
	generateCmd.Flags().StringVarP(&genDifficulty, "difficulty", "d", "intermediate", "basic, intermediate, advanced or expert")
	generateCmd.Flags().BoolVar(&genUseKB, "kb", false, "ground cards in the knowledge base")
	generateCmd.Flags().StringVarP(&genMaterial, "material", "m", "", "file with learning material instead of a topic")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var input string
	switch {
	case genMaterial != "":
		text, err := parser.ExtractText(genMaterial)
		if err != nil {
			return fmt.Errorf("failed to read material: %w", err)
		}
		input = text
	case len(args) == 1:
		input = args[0]
	default:
		return errors.New("provide a topic argument or --material file")
	}

	kv, err := openKV(ctx)
	if err != nil {
		return err
	}

	var kb *store.Store
	if genUseKB {
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
	cards, err := session.Generate(ctx, input, generate.Options{
		Count:        genCount,
		Difficulty:   genDifficulty,
		UseKnowledge: genUseKB,
	})
	if err != nil {
		return err
	}

	saveDeck(ctx, kv, cards, genDifficulty)
	printDeck(cmd, cards)
	return nil
}

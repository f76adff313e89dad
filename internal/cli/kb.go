package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"flashgenius/internal/helper"
	"flashgenius/internal/parser"
	"flashgenius/internal/store"
)

var (
	kbAddTitle string
	kbListJSON bool
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base",
}

var kbAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a document to the knowledge base",
	Long:  `Extracts text from a txt, markdown, pdf, docx or spreadsheet file, chunks it, computes embeddings and stores the document.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := parser.ExtractText(args[0])
		if err != nil {
			return err
		}
		title := kbAddTitle
		if title == "" {
			title = parser.DefaultTitle(args[0])
		}

		kv, err := openKV(ctx)
		if err != nil {
			return err
		}
		kb, err := openStore(ctx, kv)
		if err != nil {
			_ = kv.Close()
			return err
		}
		defer kb.Close()

		doc, err := kb.Add(ctx, title, text)
		if err != nil {
			return err
		}
		cmd.Printf("Added %q (%s, %d chunks)\n", doc.Title, doc.ID, len(doc.Chunks))
		return nil
	},
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge-base documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kv, err := openKV(ctx)
		if err != nil {
			return err
		}
		defer kv.Close()

		docs, err := kv.LoadDocuments(ctx)
		if err != nil {
			return err
		}
		if kbListJSON {
			helper.PrettyPrint(docs)
			return nil
		}
		if len(docs) == 0 {
			cmd.Println("The knowledge base is empty.")
			return nil
		}
		for _, doc := range docs {
			cmd.Printf("%s  %s  (%d chunks, added %s)\n", doc.ID, doc.Title, len(doc.Chunks), doc.Date.Format("2006-01-02"))
		}
		return nil
	},
}

var kbRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a document from the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]

		kv, err := openKV(ctx)
		if err != nil {
			return err
		}
		defer kv.Close()

		docs, err := kv.LoadDocuments(ctx)
		if err != nil {
			return err
		}
		remaining := docs[:0:0]
		for _, doc := range docs {
			if doc.ID != id {
				remaining = append(remaining, doc)
			}
		}
		if len(remaining) == len(docs) {
			return fmt.Errorf("%w: %s", store.ErrDocumentNotFound, id)
		}
		if err := kv.SaveDocuments(ctx, remaining); err != nil {
			return err
		}

		if cfg.Store.UseVectorIndex {
			index, err := store.NewPersistentIndex(cfg.Store.IndexPath)
			if err != nil {
				return err
			}
			if err := index.Rebuild(ctx, remaining); err != nil {
				return err
			}
		}

		cmd.Printf("Removed %s\n", id)
		return nil
	},
}

func init() {
	kbAddCmd.Flags().StringVarP(&kbAddTitle, "title", "t", "", "document title (defaults to the file name)")
	kbListCmd.Flags().BoolVar(&kbListJSON, "json", false, "output documents as JSON")
	kbCmd.AddCommand(kbAddCmd, kbListCmd, kbRemoveCmd)
	rootCmd.AddCommand(kbCmd)
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var aidCount int

var aidCmd = &cobra.Command{
	Use:   "aid <concept>",
	Short: "Generate worked examples and a diagram for a concept",
	Long: `Generates real-world example scenarios and a mermaid concept diagram to
support a flashcard. Honors the synthetic-data preference; see 'flashgenius
synthetic'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kv, err := openKV(ctx)
		if err != nil {
			return err
		}
		defer kv.Close()

		enabled, err := kv.LoadSyntheticEnabled(ctx)
		if err != nil {
			return err
		}
		if !enabled {
			cmd.Println("Synthetic data is disabled. Enable it with: flashgenius synthetic on")
			return nil
		}

		session := newSession(nil)
		aid, err := session.StudyAid(ctx, args[0], aidCount)
		if err != nil {
			return err
		}

		for i, example := range aid.Examples {
			cmd.Printf("Example %d: %s\n", i+1, example.Scenario)
			cmd.Printf("  %s\n\n", example.Explanation)
		}
		cmd.Println("Visualization (mermaid):")
		cmd.Println(aid.Visualization)
		return nil
	},
}

var syntheticCmd = &cobra.Command{
	Use:   "synthetic [on|off]",
	Short: "Show or set the synthetic-data preference",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kv, err := openKV(ctx)
		if err != nil {
			return err
		}
		defer kv.Close()

		if len(args) == 0 {
			enabled, err := kv.LoadSyntheticEnabled(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("synthetic data: %s\n", onOff(enabled))
			return nil
		}

		var enabled bool
		switch args[0] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			parsed, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			enabled = parsed
		}
		if err := kv.SaveSyntheticEnabled(ctx, enabled); err != nil {
			return err
		}
		cmd.Printf("synthetic data: %s\n", onOff(enabled))
		return nil
	},
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func init() {
	aidCmd.Flags().IntVarP(&aidCount, "count", "n", 2, "number of examples")
	rootCmd.AddCommand(aidCmd, syntheticCmd)
}

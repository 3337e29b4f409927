package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	grepType  string
	grepLimit int
)

var grepCmd = &cobra.Command{
	Use:   "grep [substring]",
	Short: "Find documents by exact substring",
	Long: `Keyword search against the metadata index. Useful where exact recall
beats semantic recall: names, identifiers, precise phrases. Works even
when the embedder is down.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrep,
}

func init() {
	grepCmd.Flags().StringVar(&grepType, "type", "", "restrict to a source type: email, file or note")
	grepCmd.Flags().IntVarP(&grepLimit, "limit", "n", 10, "maximum number of results")
	rootCmd.AddCommand(grepCmd)
}

func runGrep(cmd *cobra.Command, args []string) error {
	docs, err := api.Grep(cmd.Context(), args[0], grepType, grepLimit)
	if err != nil {
		return fmt.Errorf("grep failed: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No matches.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	for i := range docs {
		cmd.Printf("  [%d] %s\n", i+1, bold(docs[i].Title))
		cmd.Printf("      %s  %s  %s\n", docs[i].ID, docs[i].SourceType,
			docs[i].CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

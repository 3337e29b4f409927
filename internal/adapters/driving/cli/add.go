package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addSource string
	addTags   []string
	addFile   string
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add text or a file to the store",
	Long: `Adds a document to the store. Text can be given as an argument, piped
on stdin, or read from a file with --file. Near-duplicate text resolves
to the existing document instead of creating a new one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addSource, "source", "s", "cli", "provenance label")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "tags to attach (repeatable)")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "read content from a file")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var text string
	switch {
	case addFile != "":
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", addFile, err)
		}
		text = string(data)
		if addSource == "cli" {
			addSource = "file://" + addFile
		}
	case len(args) == 1:
		text = args[0]
	default:
		// Piped input.
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to add: give text as an argument, via --file or on stdin")
	}

	result, err := api.Add(ctx, text, addSource, addTags)
	if err != nil {
		return err
	}

	switch {
	case result.Duplicate:
		cmd.Printf("Already stored as %s\n", result.ID)
	case result.VectorPending:
		cmd.Printf("Stored %s (vector pending, will be indexed shortly)\n", result.ID)
	default:
		cmd.Printf("Stored %s\n", result.ID)
	}
	return nil
}

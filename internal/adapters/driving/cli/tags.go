package cli

import (
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags with document counts",
	RunE:  runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	tags, err := api.Tags(cmd.Context())
	if err != nil {
		return err
	}

	if len(tags) == 0 {
		cmd.Println("No tags yet.")
		return nil
	}

	for _, t := range tags {
		cmd.Printf("  %-24s %d\n", t.Tag, t.Count)
	}
	return nil
}

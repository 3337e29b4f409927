package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocument,
}

func init() {
	rootCmd.AddCommand(documentCmd)
}

func runDocument(cmd *cobra.Command, args []string) error {
	doc, err := api.Document(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	cmd.Println(bold(doc.Title))
	cmd.Printf("%s  %s  %s\n", faint(doc.ID), doc.SourceType,
		doc.CreatedAt.Format("2006-01-02 15:04"))
	if doc.Source != "" {
		cmd.Printf("%s %s\n", faint("source:"), doc.Source)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("%s %s\n", faint("tags:"), strings.Join(doc.Tags, ", "))
	}
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

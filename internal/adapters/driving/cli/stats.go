package cli

import (
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := api.Stats(cmd.Context())
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()

	cmd.Printf("%s %d\n", bold("Documents:"), stats.TotalDocuments)

	types := make([]string, 0, len(stats.BySourceType))
	for t := range stats.BySourceType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		cmd.Printf("  %-8s %d\n", t, stats.BySourceType[t])
	}

	cmd.Printf("%s %d\n", bold("Vectors:"), stats.VectorCount)
	cmd.Printf("%s %d\n", bold("Tags:"), stats.TotalTags)

	if stats.InSync {
		cmd.Printf("%s %s\n", bold("Indexes:"), color.GreenString("in sync"))
	} else {
		cmd.Printf("%s %s\n", bold("Indexes:"),
			color.YellowString("diverged (run: mydata reconcile)"))
	}
	return nil
}

package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [name]",
	Short: "Show a precomputed summary",
	Long: `Fetches a precomputed summary by name, for example "weekly" or
"by_topic". Summaries are JSON files produced by external jobs and
served verbatim by the daemon.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	payload, err := api.Summary(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		// Serve it raw if it will not re-indent.
		cmd.Println(string(payload))
		return nil
	}
	cmd.Println(pretty.String())
	return nil
}

package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promethean-light/mydata/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the daemon is running",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := api.Probe(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrDaemonUnavailable) {
			cmd.Printf("Daemon: %s\n", color.RedString("not running"))
			cmd.Println("Start it with: mydata serve")
			return nil
		}
		return err
	}

	cmd.Printf("Daemon: %s\n", color.GreenString("running"))

	stats, err := api.Stats(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Documents: %d, vectors: %d\n", stats.TotalDocuments, stats.VectorCount)
	if !stats.InSync {
		cmd.Println(color.YellowString("Indexes diverged; run: mydata reconcile"))
	}
	return nil
}

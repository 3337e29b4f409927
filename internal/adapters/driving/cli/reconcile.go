package cli

import (
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair divergence between the metadata and vector indexes",
	Long: `Asks the daemon to re-embed documents missing from the vector index
and drop vectors whose documents are gone. The daemon also does this on
its own every few minutes; this command forces a pass now.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	report, err := api.Reconcile(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Repaired %d of %d missing vector(s), removed %d orphan(s), %d failure(s)\n",
		report.Repaired, report.MissingVectors, report.OrphanVectors, report.Failed)
	return nil
}

// Package cli implements the mydata command line interface. Most verbs
// are thin clients of a running daemon; serve and mcp build the full
// stack in-process.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promethean-light/mydata/internal/client"
	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	daemonAddr string
	verbose    bool
)

// api talks to the running daemon. Initialised before every command that
// needs one.
var api *client.Client

var rootCmd = &cobra.Command{
	Use:   "mydata",
	Short: "Personal document store with semantic search",
	Long: `mydata stores notes, emails and files locally and finds them again
by meaning, not just keywords. Run "mydata serve" to start the daemon,
then add and search from any terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		api = client.New(daemonAddr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.mydata/config.toml)")
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "addr", "", "daemon base URL (default "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrDaemonUnavailable) {
			fmt.Fprintln(os.Stderr, color.RedString("Daemon not running.")+" Start it with: mydata serve")
		} else {
			fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		}
		os.Exit(1)
	}
}

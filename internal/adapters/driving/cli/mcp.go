package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/promethean-light/mydata/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Exposes the store to AI assistants over the Model Context Protocol.
Runs the full stack in-process and serves over stdio by default, so it
works as a subprocess of an MCP host without a running daemon.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve MCP over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	go st.reconciler.Start(ctx)

	server, err := mcp.NewServer(&mcp.Ports{
		Search:  st.search,
		Ingest:  st.ingest,
		Stats:   st.stats,
		Summary: st.summaries,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		return server.RunHTTP(ctx, mcpHTTPAddr)
	}
	return server.Run(ctx)
}

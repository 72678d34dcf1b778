package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/adapters/driving/mcp"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the Model Context Protocol server exposing the documentation
index to AI assistants. The index builds in the background; tools report
a building status until it is ready.

By default the server communicates over stdio using JSON-RPC. Use --port
to serve HTTP instead, e.g. for the MCP Inspector web UI.

Examples:
  # Stdio mode (default, for Claude Desktop)
  docdex serve

  # HTTP mode
  docdex serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docdex": {
        "command": "/path/to/docdex",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := setupServices(ctx); err != nil {
		return err
	}

	// The server accepts connections immediately; queries report the
	// index status until the background build finishes.
	indexService.BuildAsync(ctx)

	server, err := mcp.NewServer(&mcp.Ports{
		Query:   queryService,
		Indexer: indexService,
	})
	if err != nil {
		return err
	}

	if servePort > 0 {
		addr := fmt.Sprintf(":%d", servePort)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

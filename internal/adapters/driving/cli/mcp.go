package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/mcp"
)

var (
	mcpHTTPAddr    string
	mcpReadOnly    bool
	mcpMetricsAddr string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the corpus to AI assistants",
	Long: `Serves the corpus over the Model Context Protocol so an assistant can
answer from cited passages instead of from memory.

Tools: search, probe, get_record, find_record, ingest.
Resources: babix://sources, babix://records/{code}.

JSON-RPC goes over stdio unless --http is given. --read-only leaves out
the ingest tool. Scheduled refresh runs alongside when scheduler.enabled
is set.

  babix mcp serve
  babix mcp serve --http 127.0.0.1:8080 --read-only

Client configuration:
  {
    "mcpServers": {
      "babix": {"command": "/path/to/babix", "args": ["mcp", "serve"]}
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	mcpServeCmd.Flags().BoolVar(&mcpReadOnly, "read-only", false, "do not offer the ingest tool")
	mcpServeCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "serve /metrics on this address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	ports := &mcp.Ports{
		Search:  searchService,
		Records: recordService,
		Source:  sourceService,
	}
	if !mcpReadOnly {
		ports.Ingest = ingestService
	}

	server, err := mcp.NewServer(ports, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	return foreground(cmd.Context(), mcpMetricsAddr, func(ctx context.Context) error {
		if mcpHTTPAddr != "" {
			cmd.PrintErrf("MCP server listening on http://%s\n", mcpHTTPAddr)
			return server.RunHTTP(ctx, mcpHTTPAddr)
		}
		return server.Run(ctx)
	})
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The documents folder is loaded before the server starts. Tools:
  ask       answer a question from the documents
  retrieve  list the passages most similar to a query

By default, the server communicates over stdio using JSON-RPC.
Use --port to start a streamable HTTP server instead.

Examples:
  # Stdio mode (default)
  sercha-rag mcp serve --docs ./docs

  # HTTP mode (for MCP Inspector, remote access)
  sercha-rag mcp serve --port 8080

  # Retrieval only, no generation model required
  sercha-rag mcp serve --retrieve-only`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("retrieve-only", false, "skip the generation model; ask reports it unavailable")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	retrieveOnly, err := cmd.Flags().GetBool("retrieve-only")
	if err != nil {
		return fmt.Errorf("getting retrieve-only flag: %w", err)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc := services.NewQueryService(settings)
	report, cleanup, err := initPipeline(ctx, settings, svc, !retrieveOnly)
	defer cleanup()
	if err != nil {
		return err
	}
	logReport(report)

	server, err := mcp.NewServer(&mcp.Ports{Query: svc})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casefile/internal/adapters/driven/render"
	"github.com/custodia-labs/casefile/internal/adapters/driving/mcp"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an assistant can list cases,
rank candidates, edit snapshots and fetch reports.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Configuration changes are picked up while the server runs.

Examples:
  casefile mcp serve
  casefile mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Case:   caseService,
		Report: reportService,
		Renderers: []driven.ReportRenderer{
			render.NewText(nil),
			render.NewJSON(),
		},
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if configWatcher != nil {
		go func() {
			if err := configWatcher.Watch(cmd.Context(), reloaded); err != nil {
				logger.Warn("Config watcher stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

func reloaded() {
	if onConfigReload != nil {
		onConfigReload()
	}
}

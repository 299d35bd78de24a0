package cli

import (
	mcpadapter "github.com/abdidvp/matrixcheck/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the matrixcheck MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var resultsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start matrixcheck MCP server (stdio)",
		Long:  "Start the matrixcheck MCP server using stdio transport so assistants can query validation summaries and reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resultsDir == "" {
				resultsDir = defaultResultsDir()
			}
			s := mcpadapter.NewMatrixcheckMCPServer(resultsDir)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "Results directory path")

	return cmd
}

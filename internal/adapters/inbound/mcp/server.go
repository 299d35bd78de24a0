package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMatrixcheckMCPServer creates an MCP server exposing validation of the
// results directory at resultsDir.
func NewMatrixcheckMCPServer(resultsDir string) *server.MCPServer {
	s := server.NewMCPServer(
		"matrixcheck",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, resultsDir)
	registerResources(s, resultsDir)

	return s
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/config"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/logging"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/scanner"
	"github.com/abdidvp/matrixcheck/internal/application"
	"github.com/abdidvp/matrixcheck/internal/domain"
)

func registerTools(s *server.MCPServer, resultsDir string) {
	s.AddTool(
		mcplib.NewTool("matrixcheck_validate",
			mcplib.WithDescription("Validates every result.json under the results directory and returns the summary as JSON"),
			mcplib.WithString("results_dir",
				mcplib.Description("Results directory to validate (defaults to the server's results directory)"),
			),
		),
		handleValidate(resultsDir),
	)
}

// validate runs a full validation pass. The logger is discarded because
// stdout carries the MCP transport.
func validate(resultsDir string) (*domain.Summary, error) {
	criteria, err := config.New().Load(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	svc := application.NewValidateService(scanner.New(), criteria, logging.Discard())
	return svc.ValidateAll(resultsDir), nil
}

func handleValidate(resultsDir string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		dir := request.GetString("results_dir", resultsDir)

		summary, err := validate(dir)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(summary)
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

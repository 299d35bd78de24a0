package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/logging"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/report"
	"github.com/abdidvp/matrixcheck/internal/application"
)

const (
	summaryURI = "matrixcheck://summary"
	reportURI  = "matrixcheck://report"
)

func registerResources(s *server.MCPServer, resultsDir string) {
	s.AddResource(
		mcplib.NewResource(
			summaryURI,
			"Validation Summary",
			mcplib.WithResourceDescription("Aggregated validation summary for the results directory"),
			mcplib.WithMIMEType("application/json"),
		),
		handleSummaryResource(resultsDir),
	)

	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Validation Report",
			mcplib.WithResourceDescription("Markdown validation report, rendered without writing it to disk"),
			mcplib.WithMIMEType("text/markdown"),
		),
		handleReportResource(resultsDir),
	)
}

func handleSummaryResource(resultsDir string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		summary, err := validate(resultsDir)
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling summary: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      summaryURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleReportResource(resultsDir string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		summary, err := validate(resultsDir)
		if err != nil {
			return nil, err
		}

		svc := application.NewReportService(report.NewMarkdownRenderer(), report.NewFileWriter(), gitinfo.New(), logging.Discard())
		content, err := svc.GenerateReport(summary, "")
		if err != nil {
			return nil, fmt.Errorf("rendering report: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      reportURI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		}, nil
	}
}

package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/abdidvp/matrixcheck/internal/domain"
)

const (
	title      = "# Moshi Test Matrix Validation Report"
	passGlyph  = "✅"
	failGlyph  = "❌"
	timeLayout = "2006-01-02T15:04:05.000000"
)

// MarkdownRenderer implements domain.ReportRenderer.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

func (r *MarkdownRenderer) Render(s *domain.Summary, meta domain.ReportMeta) string {
	return RenderMarkdown(s, meta)
}

// RenderMarkdown renders the summary as a markdown report. Sections with
// nothing to show are omitted.
func RenderMarkdown(s *domain.Summary, meta domain.ReportMeta) string {
	lines := []string{
		title,
		"Generated: " + meta.Generated.Format(timeLayout),
	}
	if meta.Commit != "" {
		lines = append(lines, "Commit: "+meta.Commit)
	}
	lines = append(lines,
		"",
		"## Summary",
		fmt.Sprintf("- Total Tests: %d", s.TotalTests),
		fmt.Sprintf("- Valid Tests: %d", s.ValidTests),
		fmt.Sprintf("- Failed Tests: %d", s.FailedTests),
		fmt.Sprintf("- Average Score: %.1f/100", s.AverageScore),
		"",
	)

	if !s.MatrixCoverage.IsEmpty() {
		lines = append(lines, "## Matrix Coverage", "")
		for _, client := range s.MatrixCoverage.Clients {
			lines = append(lines, "### "+client.Client)
			for _, cfg := range client.Configs {
				lines = append(lines, fmt.Sprintf("- %s: %s", cfg.Config, strings.Join(cfg.AudioFiles, ", ")))
			}
			lines = append(lines, "")
		}
	}

	if s.IssuesSummary.Len() > 0 {
		lines = append(lines, "## Issues Summary", "")
		for _, ic := range s.IssuesSummary.Sorted() {
			lines = append(lines, fmt.Sprintf("- %s: %d occurrences", ic.Issue, ic.Count))
		}
		lines = append(lines, "")
	}

	if len(s.Results) > 0 {
		lines = append(lines, "## Detailed Results", "")
		for _, v := range s.Results {
			glyph := failGlyph
			if v.Valid {
				glyph = passGlyph
			}
			lines = append(lines, fmt.Sprintf("%s %s (Score: %d/100)", glyph, v.TestID(), v.Score))
			for _, issue := range v.Issues {
				lines = append(lines, "  - "+issue)
			}
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// FileWriter implements domain.ReportWriter on the local filesystem.
type FileWriter struct{}

func NewFileWriter() *FileWriter { return &FileWriter{} }

// Write replaces the file at path with content.
func (w *FileWriter) Write(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/abdidvp/matrixcheck/internal/domain"
)

// ── palette ──
var (
	accent  = lipgloss.Color("#3B82F6") // blue
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	passStyle   = lipgloss.NewStyle().Foreground(success)
	failStyle   = lipgloss.NewStyle().Foreground(danger)
	warnStyle   = lipgloss.NewStyle().Foreground(warning)
)

// RenderSummary formats the console summary: counts, average score, the top
// issues by frequency and, when anything ran, the matrix coverage table.
func RenderSummary(s *domain.Summary, topIssues int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("=== Validation Summary ==="))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total Tests: %d\n", s.TotalTests)
	fmt.Fprintf(&b, "Valid Tests: %s\n", passStyle.Render(fmt.Sprint(s.ValidTests)))
	fmt.Fprintf(&b, "Failed Tests: %s\n", failStyle.Render(fmt.Sprint(s.FailedTests)))
	fmt.Fprintf(&b, "Average Score: %.1f/100\n", s.AverageScore)

	if s.IssuesSummary.Len() > 0 && topIssues > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Top Issues:"))
		b.WriteString("\n")
		for _, ic := range s.IssuesSummary.Top(topIssues) {
			fmt.Fprintf(&b, "  - %s: %d\n", ic.Issue, ic.Count)
		}
	}

	if !s.MatrixCoverage.IsEmpty() {
		b.WriteString("\n")
		b.WriteString(RenderCoverageTable(s.MatrixCoverage))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderCoverageTable lays out matrix coverage as one row per client/config pair.
func RenderCoverageTable(m domain.MatrixCoverage) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Matrix Coverage")
	t.AppendHeader(table.Row{"Client", "Config", "Audio Files", "Count"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Client", AutoMerge: true},
		{Name: "Audio Files", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Count", Align: text.AlignRight},
	})

	for _, c := range m.Clients {
		for _, cfg := range c.Configs {
			t.AppendRow(table.Row{c.Client, cfg.Config, strings.Join(cfg.AudioFiles, ", "), len(cfg.AudioFiles)})
		}
	}

	return t.Render()
}

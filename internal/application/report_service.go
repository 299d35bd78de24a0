package application

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/abdidvp/matrixcheck/internal/domain"
)

// ReportFileName is the report written into the results directory by default.
const ReportFileName = "validation_report.md"

// ReportService renders a Summary as markdown and persists it.
type ReportService struct {
	renderer domain.ReportRenderer
	writer   domain.ReportWriter
	git      domain.GitInfo
	log      domain.Logger
	now      func() time.Time
}

// NewReportService creates a ReportService. git may be nil, in which case
// the report carries no commit line.
func NewReportService(
	renderer domain.ReportRenderer,
	writer domain.ReportWriter,
	git domain.GitInfo,
	log domain.Logger,
) *ReportService {
	return &ReportService{renderer: renderer, writer: writer, git: git, log: log, now: time.Now}
}

// WithClock overrides the report's generation time source.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// DefaultOutputPath returns where the report goes when no path is given.
func DefaultOutputPath(resultsDir string) string {
	return filepath.Join(resultsDir, ReportFileName)
}

// GenerateReport renders the summary. When outputPath is set the report is
// written there, replacing any previous file. The rendered text is returned
// even when writing fails.
func (s *ReportService) GenerateReport(summary *domain.Summary, outputPath string) (string, error) {
	meta := domain.ReportMeta{Generated: s.now()}
	if s.git != nil && summary.ResultsDir != "" {
		if hash, err := s.git.CommitHash(summary.ResultsDir); err == nil {
			meta.Commit = hash
		} else {
			s.log.Debug("no commit for results directory", "error", err)
		}
	}

	content := s.renderer.Render(summary, meta)
	if outputPath == "" {
		return content, nil
	}

	if err := s.writer.Write(outputPath, content); err != nil {
		return content, fmt.Errorf("writing report: %w", err)
	}
	s.log.Info("Report saved to: " + outputPath)
	return content, nil
}

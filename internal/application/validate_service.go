package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/matrixcheck/internal/domain"
	"github.com/abdidvp/matrixcheck/internal/domain/check"
)

// ValidateService checks result files against the validation criteria and
// aggregates them into a Summary. Per-file failures are recorded as issues;
// nothing it does returns an error.
type ValidateService struct {
	scanner  domain.ResultScanner
	criteria domain.Criteria
	log      domain.Logger
}

// NewValidateService creates a new ValidateService with all required dependencies.
func NewValidateService(scanner domain.ResultScanner, criteria domain.Criteria, log domain.Logger) *ValidateService {
	return &ValidateService{scanner: scanner, criteria: criteria, log: log}
}

// ValidateResultFile validates one result.json and the logs next to it.
func (s *ValidateService) ValidateResultFile(path string) domain.Validation {
	v := domain.Validation{File: path}

	data, err := s.scanner.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return invalid(v, check.IssueResultNotFound)
		}
		return invalid(v, check.UnreadableResultIssue(err))
	}

	rec, err := domain.ParseResultRecord(data)
	if err != nil {
		return invalid(v, check.InvalidJSONIssue(err))
	}
	v.Details = rec

	// 1. Required fields
	v.Issues = append(v.Issues, check.MissingFields(rec, s.criteria.RequiredFields)...)

	// 2. Status
	score, issue := check.ScoreStatus(rec)
	v.Score = score
	if issue != "" {
		v.Issues = append(v.Issues, issue)
	}

	// 3. Sibling logs
	s.checkLogs(&v, filepath.Dir(path))

	// 4. Timestamp
	if issue := check.TimestampIssue(rec); issue != "" {
		v.Issues = append(v.Issues, issue)
	}

	v.Valid = len(v.Issues) == 0
	s.log.Debug("validated result file", "file", path, "score", v.Score, "issues", len(v.Issues))
	return v
}

func (s *ValidateService) checkLogs(v *domain.Validation, dir string) {
	patterns := s.criteria.Patterns()
	for _, name := range s.criteria.LogFiles {
		content, err := s.scanner.ReadFile(filepath.Join(dir, name))
		switch {
		case errors.Is(err, os.ErrNotExist):
			v.Issues = append(v.Issues, check.MissingLogIssue(name))
			continue
		case err != nil:
			v.Issues = append(v.Issues, check.UnreadableLogIssue(name, err))
			continue
		}

		for _, p := range check.CriticalPatterns(content, patterns) {
			v.Issues = append(v.Issues, check.CriticalErrorIssue(name, p))
			v.Score = check.Deduct(v.Score, s.criteria.Penalty())
		}
	}
}

func invalid(v domain.Validation, issue string) domain.Validation {
	v.Valid = false
	v.Issues = []string{issue}
	v.Score = 0
	return v
}

// ValidateAll validates every result.json under root. A missing root or an
// empty tree yields a zero Summary.
func (s *ValidateService) ValidateAll(root string) *domain.Summary {
	summary := &domain.Summary{ResultsDir: root}

	if !s.scanner.RootExists(root) {
		s.log.Error("Results directory does not exist: " + root)
		return summary
	}

	s.log.Debug("discovering result files", "root", root)
	for path, err := range s.scanner.FindResults(root) {
		if err != nil {
			s.log.Warn("Skipping unreadable path", "error", err)
			continue
		}
		summary.Add(s.ValidateResultFile(path))
	}

	if summary.TotalTests == 0 {
		s.log.Warn("No result files found")
		return summary
	}

	s.log.Info(fmt.Sprintf("Found %d result files", summary.TotalTests))
	return summary
}

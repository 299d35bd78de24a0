package domain

import (
	"iter"
	"time"
)

// ResultScanner discovers result files under a results directory and reads
// them along with their sibling logs.
type ResultScanner interface {
	// RootExists reports whether the results directory is present.
	RootExists(root string) bool
	// FindResults yields every result.json under root in lexical path order.
	// A non-nil error reports a subtree that could not be walked.
	FindResults(root string) iter.Seq2[string, error]
	// ReadFile returns the file contents. Missing files report an error
	// matching os.ErrNotExist.
	ReadFile(path string) ([]byte, error)
}

// CriteriaLoader loads validation criteria for a results directory.
type CriteriaLoader interface {
	Load(path string) (Criteria, error)
}

// GitInfo reads version control metadata.
type GitInfo interface {
	CommitHash(path string) (string, error)
}

// Logger receives diagnostic output. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ReportWriter persists a rendered report.
type ReportWriter interface {
	Write(path, content string) error
}

// ReportMeta carries report header values that do not come from the Summary.
type ReportMeta struct {
	Generated time.Time
	Commit    string
}

// ReportRenderer turns a Summary into a report document.
type ReportRenderer interface {
	Render(s *Summary, meta ReportMeta) string
}

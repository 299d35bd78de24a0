package check

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdidvp/matrixcheck/internal/domain"
)

const (
	scoreSuccess = 100
	scoreFailed  = 50
	scoreUnknown = 25
)

// Issue texts shared by the validator and its callers.
const (
	IssueTestFailed       = "Test failed"
	IssueInvalidTimestamp = "Invalid timestamp format"
	IssueResultNotFound   = "Result file not found"
	issueMissingField     = "Missing required field: %s"
	issueUnknownStatus    = "Unknown status: %s"
	issueMissingLog       = "Missing log file: %s"
	issueCriticalError    = "Critical error found in %s: %s"
	issueUnreadableLog    = "Could not read log file %s: %v"
	issueInvalidJSON      = "Invalid JSON: %v"
	issueUnreadableResult = "Could not read result file: %v"
)

func MissingFieldIssue(field string) string { return fmt.Sprintf(issueMissingField, field) }
func MissingLogIssue(name string) string    { return fmt.Sprintf(issueMissingLog, name) }
func InvalidJSONIssue(err error) string     { return fmt.Sprintf(issueInvalidJSON, err) }
func UnreadableResultIssue(err error) string {
	return fmt.Sprintf(issueUnreadableResult, err)
}
func UnreadableLogIssue(name string, err error) string {
	return fmt.Sprintf(issueUnreadableLog, name, err)
}
func CriticalErrorIssue(logName, pattern string) string {
	return fmt.Sprintf(issueCriticalError, logName, pattern)
}

// MissingFields returns one issue per required field absent from rec.
func MissingFields(rec *domain.ResultRecord, required []string) []string {
	var issues []string
	for _, f := range required {
		if !rec.Has(f) {
			issues = append(issues, MissingFieldIssue(f))
		}
	}
	return issues
}

// ScoreStatus returns the base score for the record's status and the issue it
// raises, if any. An absent status renders as null.
func ScoreStatus(rec *domain.ResultRecord) (int, string) {
	status, isString := rec.String(domain.FieldStatus)
	switch {
	case isString && status == domain.StatusSuccess:
		return scoreSuccess, ""
	case isString && status == domain.StatusFailed:
		return scoreFailed, IssueTestFailed
	default:
		return scoreUnknown, fmt.Sprintf(issueUnknownStatus, rec.Text(domain.FieldStatus, "null"))
	}
}

// CriticalPatterns returns the patterns present in content, in pattern order.
// Matching is a case-insensitive substring check; patterns are expected
// lowercased. A pattern is reported once no matter how often it occurs.
func CriticalPatterns(content []byte, patterns []string) []string {
	lower := strings.ToLower(string(content))
	var found []string
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			found = append(found, p)
		}
	}
	return found
}

// Deduct subtracts penalty from score, flooring at zero.
func Deduct(score, penalty int) int {
	return max(0, score-penalty)
}

var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
}

// ParseTimestamp parses an ISO-8601 date or date-time. Fractional seconds
// and a trailing Z for UTC are accepted.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// TimestampIssue returns the issue raised by the record's timestamp, or ""
// when it parses. Absent and non-string timestamps fail.
func TimestampIssue(rec *domain.ResultRecord) string {
	ts, _ := rec.String(domain.FieldTimestamp)
	if _, err := ParseTimestamp(ts); err != nil {
		return IssueInvalidTimestamp
	}
	return ""
}

package domain

import (
	"fmt"
	"strings"
)

// Built-in criteria values.
var (
	DefaultRequiredFields = []string{
		FieldTestID, FieldTimestamp, FieldClientType,
		FieldConfigFile, FieldAudioFile, FieldStatus,
	}
	DefaultLogFiles       = []string{"server.log", "client.log", "test.log"}
	DefaultCriticalErrors = []string{"error", "exception", "panic", "fatal", "segmentation fault"}
)

const (
	DefaultCriticalPenalty = 25
	DefaultTopIssues       = 5
)

// Criteria holds the validation rules loaded from .matrixcheck.yaml.
// Pointer types distinguish "not specified" from zero values.
type Criteria struct {
	RequiredFields  []string `yaml:"required_fields"  json:"required_fields,omitempty"`
	LogFiles        []string `yaml:"log_files"        json:"log_files,omitempty"`
	CriticalErrors  []string `yaml:"critical_errors"  json:"critical_errors,omitempty"`
	CriticalPenalty *int     `yaml:"critical_penalty" json:"critical_penalty,omitempty"`
	TopIssues       int      `yaml:"top_issues"       json:"top_issues,omitempty"`
}

// DefaultCriteria returns the rules the matrix runner's output is held to
// when no config file is present.
func DefaultCriteria() Criteria {
	penalty := DefaultCriticalPenalty
	return Criteria{
		RequiredFields:  append([]string(nil), DefaultRequiredFields...),
		LogFiles:        append([]string(nil), DefaultLogFiles...),
		CriticalErrors:  append([]string(nil), DefaultCriticalErrors...),
		CriticalPenalty: &penalty,
		TopIssues:       DefaultTopIssues,
	}
}

// Penalty returns the score deducted per critical pattern found in a log.
func (c Criteria) Penalty() int {
	if c.CriticalPenalty == nil {
		return DefaultCriticalPenalty
	}
	return *c.CriticalPenalty
}

// Patterns returns the critical error patterns lowercased for matching
// against lowercased log content.
func (c Criteria) Patterns() []string {
	out := make([]string, len(c.CriticalErrors))
	for i, p := range c.CriticalErrors {
		out[i] = strings.ToLower(p)
	}
	return out
}

// Validate checks the criteria for invalid values and returns a descriptive error.
func (c Criteria) Validate() error {
	for i, f := range c.RequiredFields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("required_fields[%d] must not be empty", i)
		}
	}

	for i, name := range c.LogFiles {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("log_files[%d] must not be empty", i)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("log_files[%d] = %q must be a bare file name", i, name)
		}
	}

	// An empty pattern matches every log, failing every test.
	for i, p := range c.CriticalErrors {
		if p == "" {
			return fmt.Errorf("critical_errors[%d] must not be empty", i)
		}
	}

	if c.CriticalPenalty != nil && (*c.CriticalPenalty < 0 || *c.CriticalPenalty > 100) {
		return fmt.Errorf("critical_penalty = %d (must be between 0 and 100)", *c.CriticalPenalty)
	}

	if c.TopIssues < 0 {
		return fmt.Errorf("top_issues must be >= 0 (got %d)", c.TopIssues)
	}

	return nil
}

// MergeCriteria overlays explicit overrides on top of base.
// Explicit lists replace the base list entirely.
func MergeCriteria(base, override Criteria) Criteria {
	result := base

	if override.RequiredFields != nil {
		result.RequiredFields = override.RequiredFields
	}
	if override.LogFiles != nil {
		result.LogFiles = override.LogFiles
	}
	if len(override.CriticalErrors) > 0 {
		result.CriticalErrors = override.CriticalErrors
	}
	if override.CriticalPenalty != nil {
		result.CriticalPenalty = override.CriticalPenalty
	}
	if override.TopIssues > 0 {
		result.TopIssues = override.TopIssues
	}

	return result
}

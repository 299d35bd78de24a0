package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdidvp/matrixcheck/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the criteria file looked up inside a results directory.
const FileName = ".matrixcheck.yaml"

// YAMLLoader implements domain.CriteriaLoader by reading .matrixcheck.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads criteria from path. A directory is searched for .matrixcheck.yaml.
// Returns DefaultCriteria if the file does not exist.
func (l *YAMLLoader) Load(path string) (domain.Criteria, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultCriteria(), nil
		}
		return domain.Criteria{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var override domain.Criteria
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return domain.Criteria{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	// Validate before merging to catch typos in the user's raw input.
	if err := override.Validate(); err != nil {
		return domain.Criteria{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}

	return domain.MergeCriteria(domain.DefaultCriteria(), override), nil
}

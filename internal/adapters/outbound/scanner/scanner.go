package scanner

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// ResultFileName is the file the matrix runner writes for every test.
const ResultFileName = "result.json"

// FileScanner implements domain.ResultScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

func (s *FileScanner) RootExists(root string) bool {
	_, err := os.Stat(root)
	return err == nil
}

// FindResults walks root lazily and yields every regular entry named
// result.json, in lexical order. Unreadable directories are yielded as
// errors and skipped; the walk continues with their siblings.
func (s *FileScanner) FindResults(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield("", err) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || d.Name() != ResultFileName {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (s *FileScanner) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

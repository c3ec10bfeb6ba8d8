package flatfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kingrea/roster/internal/student"
)

// Store loads and saves a roster file at a fixed path.
type Store struct {
	path string
}

// LoadResult is what Load recovered from the file.
type LoadResult struct {
	Students []*student.Student
	Skipped  []*LineError
}

// NewStore builds a store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Exists reports whether the backing file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the whole file. A missing file is reported as an error wrapping
// fs.ErrNotExist so callers can tell "nothing saved yet" apart from IO failures.
func (s *Store) Load() (LoadResult, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{}, fmt.Errorf("flatfile: %s: %w", s.path, fs.ErrNotExist)
		}
		return LoadResult{}, fmt.Errorf("flatfile: open %s: %w", s.path, err)
	}
	defer f.Close()
	students, skipped, err := Decode(f)
	if err != nil {
		return LoadResult{}, err
	}
	return LoadResult{Students: students, Skipped: skipped}, nil
}

// Save overwrites the file with the given students in order. The content is
// written to a sibling temp file and renamed into place; on failure the old
// file is left as it was where the platform allows.
func (s *Store) Save(students []*student.Student) error {
	var buf bytes.Buffer
	if err := Encode(&buf, students); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("flatfile: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("flatfile: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flatfile: write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("flatfile: close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("flatfile: chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("flatfile: replace %s: %w", s.path, err)
	}
	return nil
}

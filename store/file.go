package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yoanbernabeu/keycount/keywords"
)

// FileStore keeps each record as a flat text file named
// <prefix><record name>. The prefix is joined by plain concatenation, so a
// directory prefix needs its trailing separator:
//
//	prefix "records/"  ->  records/myproject_keywords.txt
//	prefix ""          ->  myproject_keywords.txt (working directory)
type FileStore struct {
	prefix string
}

// NewFileStore creates a FileStore writing under prefix. The directory part
// of the prefix is created when missing.
func NewFileStore(prefix string) (*FileStore, error) {
	if dir := filepath.Dir(prefix + "_"); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}
	return &FileStore{prefix: prefix}, nil
}

// Location returns the file path of the record.
func (s *FileStore) Location(name string) string {
	return s.prefix + name
}

// Exists reports whether the record file is present.
func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.Location(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Read parses the record file.
func (s *FileStore) Read(_ context.Context, name string) (keywords.Counts, error) {
	f, err := os.Open(s.Location(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Location(name))
		}
		return nil, err
	}
	defer f.Close()
	return ParseRecord(f)
}

// Create writes a new record file, failing with ErrExists if one is
// already there. A partially written file is removed.
func (s *FileStore) Create(_ context.Context, name string, vocab keywords.Vocabulary, counts keywords.Counts) error {
	path := s.Location(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return err
	}

	if err := WriteRecord(f, vocab, counts); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// Remove deletes the record file; false means there was none.
func (s *FileStore) Remove(_ context.Context, name string) (bool, error) {
	err := os.Remove(s.Location(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) Close() error { return nil }

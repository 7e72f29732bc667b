package events

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists the event list.
type Store interface {
	Load() ([]NightEvent, error)
	Save(events []NightEvent) error
}

// FileStore keeps events in a pipe-delimited text file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file. A missing file is an empty list.
func (s *FileStore) Load() ([]NightEvent, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return ParseEvents(string(data)), nil
}

// Save replaces the file contents atomically.
func (s *FileStore) Save(events []NightEvent) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create events dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".night-events-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(FormatEvents(events)); err != nil {
		tmp.Close()
		return fmt.Errorf("write events: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close events: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	return nil
}

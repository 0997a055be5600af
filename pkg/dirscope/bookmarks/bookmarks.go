// Package bookmarks persists a small ordered list of directory paths to a
// JSON file. Indices exposed to users are 1-based, matching how the CLI
// and dashboard number them.
package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// ErrDuplicate is returned when adding a path that is already bookmarked.
var ErrDuplicate = errors.New("already bookmarked")

// ErrInvalidIndex is returned for an out-of-range bookmark number.
var ErrInvalidIndex = errors.New("invalid bookmark number")

// Store reads and writes one bookmarks file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns $XDG_DATA_HOME/dirscope/bookmarks.json.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "dirscope", "bookmarks.json")
}

// List returns all bookmarked paths in insertion order. A missing file is
// an empty list, not an error.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends an absolute form of path and returns its 1-based index.
func (s *Store) Add(path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving %q: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	marks, err := s.load()
	if err != nil {
		return 0, err
	}
	for _, m := range marks {
		if m == abs {
			return 0, ErrDuplicate
		}
	}

	marks = append(marks, abs)
	if err := s.save(marks); err != nil {
		return 0, err
	}
	return len(marks), nil
}

// Remove deletes the bookmark at the 1-based index and returns the path
// that was removed.
func (s *Store) Remove(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, err := s.load()
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(marks) {
		return "", ErrInvalidIndex
	}

	removed := marks[index-1]
	marks = append(marks[:index-1], marks[index:]...)
	if err := s.save(marks); err != nil {
		return "", err
	}
	return removed, nil
}

// Get returns the path at the 1-based index.
func (s *Store) Get(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, err := s.load()
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(marks) {
		return "", ErrInvalidIndex
	}
	return marks[index-1], nil
}

// load reads the bookmarks file. Callers hold s.mu.
func (s *Store) load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}

	var marks []string
	if err := json.Unmarshal(data, &marks); err != nil {
		return nil, fmt.Errorf("parsing bookmarks: %w", err)
	}
	return marks, nil
}

// save writes the bookmarks file, creating its directory on first use.
// Callers hold s.mu.
func (s *Store) save(marks []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating bookmarks directory: %w", err)
	}

	data, err := json.MarshalIndent(marks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each namespace in its own JSON file under a base
// directory. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated blob behind.
type FileStore struct {
	baseDir string
	mu      sync.Mutex
}

// NewFileStore ensures the data directory exists and returns a handle.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Load reads the blob for a namespace. A missing file is not an error.
func (s *FileStore) Load(_ context.Context, namespace string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read blob %s: %w", namespace, err)
	}
	return data, true, nil
}

// Save replaces the namespace blob atomically.
func (s *FileStore) Save(_ context.Context, namespace string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(namespace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", namespace, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit blob %s: %w", namespace, err)
	}
	return nil
}

// Delete removes the namespace blob if present.
func (s *FileStore) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(namespace)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", namespace, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(namespace string) string {
	return filepath.Join(s.baseDir, namespace+".json")
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var _ ObjectStore = (*FileStore)(nil)

// FileStore keeps the object in a single file on local disk. Reads hold a
// shared lock and writes an exclusive one; writes go to a temp file in the
// same directory and are renamed into place so a crash never leaves a
// truncated dataset behind.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore returns a store backed by path. The parent directory is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the whole file.
func (s *FileStore) Get(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Put atomically replaces the file contents.
func (s *FileStore) Put(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename into %s: %w", s.path, err)
	}
	return nil
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.path
}

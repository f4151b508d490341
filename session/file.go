package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// FileStore keeps the snapshot in a single file on local disk, the durable
// client storage of CLI and desktop deployments. Writes go through a
// temporary file and rename so a crash mid-write never leaves a truncated
// snapshot behind.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path. Parent directories are
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return data, nil
}

func (s *FileStore) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Join(ErrStoreUnavailable, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

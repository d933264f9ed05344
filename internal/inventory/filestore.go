package inventory

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore holds uploaded equipment images. The service calls Remove
// explicitly when an image is replaced or its item deleted, so the
// cleanup ordering is visible at the call site instead of hidden in a
// storage trigger.
type FileStore interface {
	Save(originalName string, contents io.Reader) (path string, err error)
	Remove(path string) error
}

// DiskStore writes images under a base directory with random names.
type DiskStore struct {
	BaseDir string
}

func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{BaseDir: baseDir}
}

func (s *DiskStore) Save(originalName string, contents io.Reader) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.BaseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, contents); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func (s *DiskStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

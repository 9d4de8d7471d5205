package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// FileStore is a file-based design store for CLI workflows. Each design is
// stored as one JSON file named after its ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/tanklab/designs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "resolve home dir")
		}
		baseDir = filepath.Join(home, ".config", "tanklab", "designs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create design dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) designPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*vessel.Design, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.designPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "read design file")
	}

	var d vessel.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "parse design %s", id)
	}
	return &d, nil
}

func (s *FileStore) Put(ctx context.Context, d *vessel.Design) (string, error) {
	id, err := prepare(d)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal design")
	}
	if err := os.WriteFile(s.designPath(id), data, 0600); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "write design file")
	}
	return id, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.designPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "delete design file")
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list design dir")
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

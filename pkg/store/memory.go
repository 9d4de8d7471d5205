package store

import (
	"context"
	"sync"

	"github.com/proaptus/tanklab/pkg/vessel"
)

// MemoryStore is an in-memory design store for development and testing.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	designs map[string]*vessel.Design
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{designs: make(map[string]*vessel.Design)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*vessel.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.designs[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Put(ctx context.Context, d *vessel.Design) (string, error) {
	id, err := prepare(d)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.designs[id] = &cp
	return id, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.designs[id]; !ok {
		return notFound(id)
	}
	delete(s.designs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.designs))
	for id := range s.designs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

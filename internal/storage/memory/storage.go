package memory

import (
	"context"
	"sync"

	"github.com/mcoot/warfront/internal/storage"
)

// Storage is an in-memory document backend
type Storage struct {
	mu   sync.RWMutex
	docs map[storage.Collection][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		docs: make(map[storage.Collection][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Backend = (*Storage)(nil)

func (s *Storage) Ensure(ctx context.Context, c storage.Collection, empty []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[c]; !ok {
		s.docs[c] = clone(empty)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[c]
	if !ok {
		return nil, storage.ErrDocumentNotFound
	}
	return clone(data), nil
}

func (s *Storage) Save(ctx context.Context, c storage.Collection, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[c] = clone(data)
	return nil
}

func (s *Storage) Close() error {
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

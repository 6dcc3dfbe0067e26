package store

import (
	"context"
	"sync"

	"inspire/internal/domain"
	"inspire/internal/port"
)

// MemoryIndex is a pure in-memory vector index. It backs tests and small
// corpora where persistence is not worth a database file.
type MemoryIndex struct {
	mu       sync.RWMutex
	passages map[string]domain.Passage
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		passages: make(map[string]domain.Passage),
	}
}

func (s *MemoryIndex) Upsert(ctx context.Context, passages []domain.Passage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range passages {
		s.passages[p.ID] = p
	}
	return nil
}

func (s *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]port.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return knn(s.passages, query, k), nil
}

func (s *MemoryIndex) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages), nil
}

func (s *MemoryIndex) Close() error {
	return nil
}

package storage

import (
	"context"
	"sync"

	"github.com/lehigh-university-libraries/booktab/internal/models"
)

// MemoryStore keeps the catalog in process memory. Used by tests and by
// `serve` when nothing should touch the disk.
type MemoryStore struct {
	books []models.Book
	mu    sync.RWMutex
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.books), nil
}

func (s *MemoryStore) Save(ctx context.Context, books []models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = clone(books)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu       sync.RWMutex
	passages []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SavePassages(ctx context.Context, passages []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = make([]string, len(passages))
	copy(s.passages, passages)
	return nil
}

func (s *Storage) GetPassages(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.passages == nil {
		return nil, model.ErrNoPassages
	}
	result := make([]string, len(s.passages))
	copy(result, s.passages)
	return result, nil
}

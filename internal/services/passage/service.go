package passage

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/typerace/typerace-go/internal/dependencies/random"
	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/storage"
)

// Service provides the race passages. The corpus is loaded once (from a
// file or from storage) and cached; every room gets one passage picked at
// random for its lifetime.
type Service struct {
	storage storage.Storage
	random  random.Random

	mu       sync.RWMutex
	passages []string
}

// New creates a new passage Service
func New(storage storage.Storage, random random.Random) *Service {
	return &Service{
		storage: storage,
		random:  random,
	}
}

// LoadFromStorage loads the passage corpus from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	passages, err := s.storage.GetPassages(ctx)
	if err != nil {
		return err
	}
	return s.load(passages)
}

// LoadFromFile loads passages from a file (one passage per line, blank
// lines skipped) and saves the corpus to storage.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var passages []string
	scanner := bufio.NewScanner(file)
	// Passages can be long; the default token limit is too small
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		passages = append(passages, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := s.load(passages); err != nil {
		return err
	}
	return s.storage.SavePassages(ctx, passages)
}

// LoadPassages loads an explicit corpus (used by tests)
func (s *Service) LoadPassages(passages []string) error {
	return s.load(passages)
}

func (s *Service) load(passages []string) error {
	if len(passages) == 0 {
		return model.ErrNoPassages
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = passages
	return nil
}

// RandomPassage returns a uniformly chosen passage from the corpus
func (s *Service) RandomPassage() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.passages) == 0 {
		return "", model.ErrNoPassages
	}
	return s.passages[s.random.Intn(len(s.passages))], nil
}

// Count returns the number of loaded passages
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}

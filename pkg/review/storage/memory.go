package storage

import (
	"context"
	"sync"
	"time"

	"veritas-hq/saturn/pkg/review"
)

// MemoryStore keeps archived results in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*review.ReviewResult
}

// NewMemoryStore creates an empty in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*review.ReviewResult),
	}
}

func (s *MemoryStore) Save(_ context.Context, result *review.ReviewResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.RequestID] = result.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, requestID string) (*review.ReviewResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[requestID]
	if !ok {
		return nil, &review.NotFoundError{RequestID: requestID}
	}
	return result.Clone(), nil
}

func (s *MemoryStore) Purge(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, result := range s.results {
		if result.CompletedAt != nil && result.CompletedAt.Before(olderThan) {
			delete(s.results, id)
			purged++
		}
	}
	return purged, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]*review.ReviewResult)
	return nil
}

package repositories

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryDocumentStore is used for local development and tests.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
	puts int
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]json.RawMessage)}
}

func (s *MemoryDocumentStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryDocumentStore) Put(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.docs[key] = stored
	s.puts++
	return nil
}

// Puts reports how many writes the store has accepted.
func (s *MemoryDocumentStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

package settings

import (
	"context"
	"encoding/json"
	"sync"
)

// InMemoryStore keeps admin settings in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]json.RawMessage)}
}

func (s *InMemoryStore) Get(_ context.Context) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(s.values))
	for k, v := range s.values {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out, nil
}

// Merge writes the given keys without touching keys absent from the input
// (set-with-merge semantics).
func (s *InMemoryStore) Merge(_ context.Context, values map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

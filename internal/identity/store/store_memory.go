package store

import (
	"context"
	"sync"
	"time"

	"vendorhub/internal/identity"
	"vendorhub/pkg/platform/sentinel"
)

// InMemoryUserStore keeps user records in process memory. Used in dev and as
// the fake in handler/service tests.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*identity.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*identity.User)}
}

func (s *InMemoryUserStore) GetByUID(_ context.Context, uid string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[uid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// Upsert creates or replaces a user record keyed by UID.
func (s *InMemoryUserStore) Upsert(_ context.Context, user *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *user
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	copied.UpdatedAt = time.Now()
	s.users[copied.UID] = &copied
	return nil
}

package vendors

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"vendorhub/internal/directory/models"
	"vendorhub/pkg/platform/sentinel"
)

// InMemoryStore keeps vendor listings in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	vendors map[string]*models.Vendor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{vendors: make(map[string]*models.Vendor)}
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.vendors)), nil
}

func (s *InMemoryStore) GetBySlug(_ context.Context, slug string) (*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vendors {
		if v.Slug == slug {
			copied := *v
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Upsert creates or replaces a vendor keyed by slug, assigning an ID on first
// write. Seeding reruns must not duplicate listings.
func (s *InMemoryStore) Upsert(_ context.Context, vendor *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *vendor
	for id, existing := range s.vendors {
		if existing.Slug == copied.Slug {
			copied.ID = id
			copied.CreatedAt = existing.CreatedAt
			s.vendors[id] = &copied
			return nil
		}
	}
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.vendors[copied.ID] = &copied
	return nil
}

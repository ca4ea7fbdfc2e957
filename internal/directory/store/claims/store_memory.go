package claims

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"vendorhub/internal/directory/models"
	"vendorhub/pkg/platform/sentinel"
)

// InMemoryStore keeps business claims in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[string]*models.Claim
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{claims: make(map[string]*models.Claim)}
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.claims)), nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context, status models.ClaimStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, c := range s.claims {
		if c.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *claim
	return &copied, nil
}

func (s *InMemoryStore) Create(_ context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *claim
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}
	if copied.Status == "" {
		copied.Status = models.ClaimStatusPending
	}
	now := time.Now()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	s.claims[copied.ID] = &copied
	claim.ID = copied.ID
	return nil
}

// ApplyTransition writes the status, notes, and processing fields in one
// step, mirroring the single document update the postgres store issues.
func (s *InMemoryStore) ApplyTransition(_ context.Context, id string, tr models.ClaimTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.claims[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	processedAt := tr.ProcessedAt
	claim.Status = tr.Status
	claim.AdminNotes = tr.AdminNotes
	claim.ProcessedBy = tr.ProcessedBy
	claim.ProcessedAt = &processedAt
	claim.UpdatedAt = processedAt
	return nil
}

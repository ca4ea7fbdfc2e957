package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vendorhub/internal/directory/models"
	"vendorhub/pkg/platform/sentinel"
)

// InMemoryStore keeps admin notifications in process memory.
type InMemoryStore struct {
	mu            sync.RWMutex
	notifications map[string]*models.Notification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{notifications: make(map[string]*models.Notification)}
}

func (s *InMemoryStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *n
	copied.ForAdmins = append([]string(nil), n.ForAdmins...)
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}
	if copied.Status == "" {
		copied.Status = models.NotificationUnread
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.notifications[copied.ID] = &copied
	n.ID = copied.ID
	return nil
}

// ListUnreadFor returns up to limit unread notifications addressed to the
// admin (directly or via the "all" audience), newest first.
func (s *InMemoryStore) ListUnreadFor(_ context.Context, uid string, limit int) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Notification
	for _, n := range s.notifications {
		if n.Status == models.NotificationUnread && n.IsFor(uid) {
			copied := *n
			copied.ForAdmins = append([]string(nil), n.ForAdmins...)
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	n.Status = models.NotificationRead
	return nil
}

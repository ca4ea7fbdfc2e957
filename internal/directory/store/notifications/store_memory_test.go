package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorhub/internal/directory/models"
)

func TestListUnreadFor(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	base := time.Now().Add(-time.Hour)
	seed := []*models.Notification{
		{Title: "direct old", ForAdmins: []string{"admin-1"}, CreatedAt: base},
		{Title: "direct new", ForAdmins: []string{"admin-1"}, CreatedAt: base.Add(30 * time.Minute)},
		{Title: "broadcast", ForAdmins: []string{models.AudienceAll}, CreatedAt: base.Add(10 * time.Minute)},
		{Title: "other admin", ForAdmins: []string{"admin-2"}, CreatedAt: base.Add(20 * time.Minute)},
		{Title: "already read", ForAdmins: []string{"admin-1"}, Status: models.NotificationRead, CreatedAt: base.Add(40 * time.Minute)},
	}
	for _, n := range seed {
		require.NoError(t, store.Create(ctx, n))
	}

	t.Run("filters by audience and unread, newest first", func(t *testing.T) {
		got, err := store.ListUnreadFor(ctx, "admin-1", 5)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "direct new", got[0].Title)
		assert.Equal(t, "broadcast", got[1].Title)
		assert.Equal(t, "direct old", got[2].Title)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		got, err := store.ListUnreadFor(ctx, "admin-1", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "direct new", got[0].Title)
	})

	t.Run("mark read removes from unread listing", func(t *testing.T) {
		got, err := store.ListUnreadFor(ctx, "admin-2", 5)
		require.NoError(t, err)
		require.Len(t, got, 2) // direct + broadcast

		require.NoError(t, store.MarkRead(ctx, got[0].ID))

		after, err := store.ListUnreadFor(ctx, "admin-2", 5)
		require.NoError(t, err)
		assert.Len(t, after, 1)
	})
}

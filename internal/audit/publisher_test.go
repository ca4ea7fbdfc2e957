package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitStampsDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	err := pub.Emit(ctx, Entry{
		AdminUID:          "admin-1",
		AdminEmail:        "admin@example.com",
		Action:            ActionUpdateClaimStatus,
		Description:       "claim C1 approved",
		RelatedDocID:      "C1",
		RelatedCollection: "business_claims",
		IP:                "203.0.113.9",
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	})
	require.NoError(t, err)

	entries := store.All()
	require.Len(t, entries, 1)
	got := entries[0]
	assert.NotEmpty(t, got.ID)
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Second)
	assert.Contains(t, got.DeviceSummary, "Chrome")
}

func TestEmitIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	entry := Entry{AdminUID: "admin-1", Action: ActionUpdateClaimStatus, RelatedDocID: "C1"}
	require.NoError(t, pub.Emit(ctx, entry))
	require.NoError(t, pub.Emit(ctx, entry))

	entries := store.All()
	require.Len(t, entries, 2, "repeating an action appends a second entry")
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Entry, 2)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Entry{AdminUID: "admin-1", Action: ActionUserSeeded}
	inbox <- Entry{AdminUID: "admin-1", Action: ActionUserSeeded}

	require.Eventually(t, func() bool {
		return len(store.All()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence surface for audit entries. Append-only; there is
// deliberately no update or delete.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByAdmin(ctx context.Context, adminUID string) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Publisher captures structured audit entries. It uses the storage layer for
// persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit stamps defaults (ID, timestamp, device summary) and appends the entry.
func (p *Publisher) Emit(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.DeviceSummary == "" {
		entry.DeviceSummary = DeviceSummaryFrom(entry.UserAgent)
	}
	return p.store.Append(ctx, entry)
}

// List returns the entries recorded for one admin.
func (p *Publisher) List(ctx context.Context, adminUID string) ([]Entry, error) {
	return p.store.ListByAdmin(ctx, adminUID)
}

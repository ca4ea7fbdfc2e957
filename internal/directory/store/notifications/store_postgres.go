package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vendorhub/internal/directory/models"
	"vendorhub/pkg/platform/sentinel"
)

// PostgresStore persists admin notifications in PostgreSQL. The audience is
// a text[] column so membership checks stay in the query.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Status == "" {
		n.Status = models.NotificationUnread
	}
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT INTO admin_notifications (id, title, message, type, status, for_admins, related_doc_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Message, n.Type, string(n.Status),
		pq.Array(n.ForAdmins), n.RelatedDocID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListUnreadFor returns up to limit unread notifications addressed to the
// admin (directly or via the "all" audience), newest first.
func (s *PostgresStore) ListUnreadFor(ctx context.Context, uid string, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, title, message, type, status, for_admins, related_doc_id, created_at
		FROM admin_notifications
		WHERE status = $1 AND ($2 = ANY(for_admins) OR $3 = ANY(for_admins))
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := s.db.QueryContext(ctx, query,
		string(models.NotificationUnread), uid, models.AudienceAll, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		var (
			n      models.Notification
			status string
		)
		err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &status,
			pq.Array(&n.ForAdmins), &n.RelatedDocID, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Status = models.NotificationStatus(status)
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return result, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE admin_notifications SET status = $2 WHERE id = $1`,
		id, string(models.NotificationRead),
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

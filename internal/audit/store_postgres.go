package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit entries in the admin_activity_logs table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO admin_activity_logs (
			id, admin_uid, admin_email, action, description,
			related_doc_id, related_collection, ip, user_agent,
			device_summary, request_id, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.AdminUID,
		entry.AdminEmail,
		string(entry.Action),
		entry.Description,
		entry.RelatedDocID,
		entry.RelatedCollection,
		entry.IP,
		entry.UserAgent,
		entry.DeviceSummary,
		entry.RequestID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAdmin(ctx context.Context, adminUID string) ([]Entry, error) {
	query := selectColumns + `
		WHERE admin_uid = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, adminUID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	query := selectColumns + `
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

const selectColumns = `
		SELECT id, admin_uid, admin_email, action, description,
		       related_doc_id, related_collection, ip, user_agent,
		       device_summary, request_id, timestamp
		FROM admin_activity_logs`

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			action string
		)
		err := rows.Scan(
			&e.ID,
			&e.AdminUID,
			&e.AdminEmail,
			&action,
			&e.Description,
			&e.RelatedDocID,
			&e.RelatedCollection,
			&e.IP,
			&e.UserAgent,
			&e.DeviceSummary,
			&e.RequestID,
			&e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = Action(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists admin settings as one jsonb row per key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM admin_settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}

// Merge upserts the given keys without touching keys absent from the input
// (set-with-merge semantics).
func (s *PostgresStore) Merge(ctx context.Context, values map[string]json.RawMessage) error {
	query := `
		INSERT INTO admin_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	for key, value := range values {
		if _, err := s.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
			return fmt.Errorf("merge setting %q: %w", key, err)
		}
	}
	return nil
}

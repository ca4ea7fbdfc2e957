package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vendorhub/internal/identity"
	"vendorhub/pkg/platform/sentinel"
)

// PostgresUserStore persists user records in PostgreSQL. Pure I/O; the role
// check belongs to the identity resolver.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) GetByUID(ctx context.Context, uid string) (*identity.User, error) {
	query := `
		SELECT uid, email, display_name, role, active, bootstrap_hash, created_at, updated_at
		FROM users
		WHERE uid = $1
	`
	var user identity.User
	err := s.db.QueryRowContext(ctx, query, uid).Scan(
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&user.Role,
		&user.Active,
		&user.BootstrapHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Upsert creates or replaces a user record keyed by UID.
func (s *PostgresUserStore) Upsert(ctx context.Context, user *identity.User) error {
	query := `
		INSERT INTO users (uid, email, display_name, role, active, bootstrap_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			active = EXCLUDED.active,
			bootstrap_hash = EXCLUDED.bootstrap_hash,
			updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err := s.db.ExecContext(ctx, query,
		user.UID,
		user.Email,
		user.DisplayName,
		user.Role,
		user.Active,
		user.BootstrapHash,
		createdAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

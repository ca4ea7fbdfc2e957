package vendors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vendorhub/internal/directory/models"
	"vendorhub/pkg/platform/sentinel"
)

// PostgresStore persists vendor listings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) GetBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	query := `
		SELECT id, name, slug, category, city, verified, created_at
		FROM vendors
		WHERE slug = $1
	`
	var v models.Vendor
	err := s.db.QueryRowContext(ctx, query, slug).Scan(
		&v.ID, &v.Name, &v.Slug, &v.Category, &v.City, &v.Verified, &v.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get vendor by slug: %w", err)
	}
	return &v, nil
}

// Upsert creates or replaces a vendor keyed by slug so seed reruns stay
// idempotent.
func (s *PostgresStore) Upsert(ctx context.Context, vendor *models.Vendor) error {
	id := vendor.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := vendor.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT INTO vendors (id, name, slug, category, city, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			city = EXCLUDED.city,
			verified = EXCLUDED.verified
	`
	_, err := s.db.ExecContext(ctx, query,
		id, vendor.Name, vendor.Slug, vendor.Category, vendor.City, vendor.Verified, createdAt,
	)
	if err != nil {
		return fmt.Errorf("upsert vendor: %w", err)
	}
	return nil
}

package claims

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vendorhub/internal/directory/models"
	"vendorhub/pkg/platform/sentinel"
)

// PostgresStore persists business claims in PostgreSQL. Pure I/O; status
// validation belongs to the admin service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM business_claims`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status models.ClaimStatus) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM business_claims WHERE status = $1`, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count claims by status: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	query := `
		SELECT id, vendor_id, claimant_uid, business_name, status, admin_notes,
		       processed_by, processed_at, created_at, updated_at
		FROM business_claims
		WHERE id = $1
	`
	var (
		c           models.Claim
		status      string
		processedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.VendorID, &c.ClaimantUID, &c.BusinessName, &status, &c.AdminNotes,
		&c.ProcessedBy, &processedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get claim: %w", err)
	}
	c.Status = models.ClaimStatus(status)
	if processedAt.Valid {
		c.ProcessedAt = &processedAt.Time
	}
	return &c, nil
}

func (s *PostgresStore) Create(ctx context.Context, claim *models.Claim) error {
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	if claim.Status == "" {
		claim.Status = models.ClaimStatusPending
	}
	now := time.Now()
	createdAt := claim.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	query := `
		INSERT INTO business_claims (id, vendor_id, claimant_uid, business_name, status,
		                             admin_notes, processed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		claim.ID, claim.VendorID, claim.ClaimantUID, claim.BusinessName, string(claim.Status),
		claim.AdminNotes, claim.ProcessedBy, createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

// ApplyTransition updates status, notes, and processing fields in a single
// UPDATE so the transition is atomic at the row level.
func (s *PostgresStore) ApplyTransition(ctx context.Context, id string, tr models.ClaimTransition) error {
	query := `
		UPDATE business_claims
		SET status = $2, admin_notes = $3, processed_by = $4, processed_at = $5, updated_at = $5
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		id, string(tr.Status), tr.AdminNotes, tr.ProcessedBy, tr.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("apply claim transition: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply claim transition: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema creates every table the postgres stores touch. Kept in one place so
// integration suites all run against the same shape.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid            TEXT PRIMARY KEY,
	email          TEXT NOT NULL DEFAULT '',
	display_name   TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT '',
	active         BOOLEAN NOT NULL DEFAULT FALSE,
	bootstrap_hash TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vendors (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL UNIQUE,
	category   TEXT NOT NULL DEFAULT '',
	city       TEXT NOT NULL DEFAULT '',
	verified   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS business_claims (
	id            TEXT PRIMARY KEY,
	vendor_id     TEXT NOT NULL,
	claimant_uid  TEXT NOT NULL,
	business_name TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	admin_notes   TEXT NOT NULL DEFAULT '',
	processed_by  TEXT NOT NULL DEFAULT '',
	processed_at  TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS admin_notifications (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	message        TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	for_admins     TEXT[] NOT NULL DEFAULT '{}',
	related_doc_id TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS admin_settings (
	key   TEXT PRIMARY KEY,
	value JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS admin_activity_logs (
	id                 TEXT PRIMARY KEY,
	admin_uid          TEXT NOT NULL,
	admin_email        TEXT NOT NULL DEFAULT '',
	action             TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	related_doc_id     TEXT NOT NULL DEFAULT '',
	related_collection TEXT NOT NULL DEFAULT '',
	ip                 TEXT NOT NULL DEFAULT '',
	user_agent         TEXT NOT NULL DEFAULT '',
	device_summary     TEXT NOT NULL DEFAULT '',
	request_id         TEXT NOT NULL DEFAULT '',
	timestamp          TIMESTAMPTZ NOT NULL
);
`

// PostgresContainer is a throwaway postgres instance with the schema applied.
type PostgresContainer struct {
	DSN string
	DB  *sql.DB
}

// NewPostgresContainer starts a postgres container, applies the schema, and
// returns a connected handle. The container is terminated when the test
// finishes.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("vendorhub_test"),
		tcpostgres.WithUsername("vendorhub"),
		tcpostgres.WithPassword("vendorhub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{DSN: dsn, DB: db}
}

// TruncateAll clears every table. Call between tests that share the container.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE users, vendors, business_claims, admin_notifications,
		         admin_settings, admin_activity_logs
	`)
	return err
}

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
)

// Schema is the directory and audit schema the service reads. The dashboard
// owns the real migrations; this copy exists so integration tests run
// against the same shape.
const Schema = `
CREATE TABLE identities (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE name_variants (
	id UUID PRIMARY KEY,
	identity_id UUID NOT NULL REFERENCES identities (id),
	display_text TEXT NOT NULL,
	is_preferred BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX name_variants_preferred_idx
	ON name_variants (identity_id) WHERE is_preferred;

CREATE TABLE contexts (
	id UUID PRIMARY KEY,
	identity_id UUID NOT NULL REFERENCES identities (id),
	name TEXT NOT NULL,
	is_permanent BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (identity_id, name)
);

CREATE TABLE context_assignments (
	context_id UUID NOT NULL REFERENCES contexts (id),
	name_id UUID NOT NULL REFERENCES name_variants (id),
	PRIMARY KEY (context_id)
);

CREATE TABLE consents (
	id UUID PRIMARY KEY,
	target_id UUID NOT NULL REFERENCES identities (id),
	requester_id UUID NOT NULL REFERENCES identities (id),
	context_id UUID REFERENCES contexts (id),
	status TEXT NOT NULL,
	granted_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ
);

CREATE INDEX consents_pair_idx ON consents (target_id, requester_id, granted_at DESC);

CREATE TABLE audit_entries (
	id UUID PRIMARY KEY,
	target_id UUID NOT NULL,
	requester_id UUID,
	source TEXT NOT NULL,
	name_text TEXT NOT NULL DEFAULT '',
	name_id UUID,
	context_id UUID,
	consent_id UUID,
	fallback_reason TEXT,
	error TEXT,
	request_id TEXT,
	occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX audit_entries_target_idx ON audit_entries (target_id, occurred_at DESC);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("moniker"),
		tcpostgres.WithUsername("moniker"),
		tcpostgres.WithPassword("moniker"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{Container: container, URL: url, DB: db}
	t.Cleanup(func() {
		_ = pc.DB.Close()
		_ = pc.Container.Terminate(context.Background())
	})
	return pc
}

// Truncate empties all tables. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE audit_entries, consents, context_assignments, contexts,
		         name_variants, identities CASCADE
	`)
	return err
}

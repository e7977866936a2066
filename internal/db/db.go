// Package db provides PostgreSQL access for records, snapshot runs and
// snapshot rows.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and verifies it.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema is applied by InitSchema. Every statement is idempotent so restarts
// and repeated inits are safe.
const schema = `
CREATE TABLE IF NOT EXISTS items (
	id             uuid PRIMARY KEY,
	stage          text NOT NULL,
	apn            text NOT NULL DEFAULT '',
	address        text NOT NULL DEFAULT '',
	city           text NOT NULL DEFAULT '',
	state          text NOT NULL DEFAULT '',
	zip            text NOT NULL DEFAULT '',
	record_date    text NOT NULL DEFAULT '',
	doc_type       text NOT NULL DEFAULT '',
	source_url     text NOT NULL DEFAULT '',
	assessor_url   text NOT NULL DEFAULT '',
	resolved_situs text NOT NULL DEFAULT '',
	resolved_at    timestamptz
);

CREATE TABLE IF NOT EXISTS runs (
	id         bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id  bigint NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	item_id uuid NOT NULL,
	key     text NOT NULL,
	hash    text NOT NULL,
	PRIMARY KEY (run_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_items_stage ON items (stage);
CREATE INDEX IF NOT EXISTS idx_items_unresolved ON items (id) WHERE apn <> '' AND resolved_situs = '';
CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots (run_id);
`

// InitSchema creates the tables and indexes if they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Reset drops all tracker tables and recreates them empty. Destructive;
// exposed only behind an explicit operator action.
func (db *DB) Reset(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, `DROP TABLE IF EXISTS snapshots, runs, items CASCADE`); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return db.InitSchema(ctx)
}

package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id         BIGSERIAL PRIMARY KEY,
		kind       TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		status     SMALLINT    NOT NULL DEFAULT 0,
		amount     NUMERIC(18,2),
		payload    JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (kind, key)
	)`,
	`CREATE INDEX IF NOT EXISTS records_kind_status_idx ON records (kind, status)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      BYTEA       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema crea las tablas de la caché local si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS client_credentials (
    profile    TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (profile, key)
);

CREATE TABLE IF NOT EXISTS placed_orders (
    profile     TEXT          NOT NULL,
    number      INTEGER       NOT NULL,
    name        TEXT          NOT NULL DEFAULT '',
    ingredients TEXT[]        NOT NULL DEFAULT '{}',
    total       NUMERIC(12,2) NOT NULL DEFAULT 0,
    placed_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
    PRIMARY KEY (profile, number)
);`

// Migrate crea las tablas del cliente si no existen. Es idempotente.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// DefaultTable holds correlation records when no table is configured.
const DefaultTable = "payment_nonce"

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
  id                   BIGSERIAL PRIMARY KEY,
  token                TEXT NOT NULL,
  amount               BIGINT NOT NULL,
  nonce                TEXT NOT NULL UNIQUE,
  transaction_id       TEXT NULL,
  payment_token_number TEXT NULL,
  signature            TEXT NULL,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS %[1]s_transaction_id_idx ON %[1]s (transaction_id);
`

// EnsureSchema creates the correlation table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if table == "" {
		table = DefaultTable
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(schemaTemplate, table)); err != nil {
		return fmt.Errorf("ensure schema for %s: %w", table, err)
	}
	return nil
}

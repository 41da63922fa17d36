package sqlite

import (
	"database/sql"
	"fmt"
)

// DefaultTable holds correlation records when no table is configured.
const DefaultTable = "payment_nonce"

// RunMigrations creates the correlation table if it does not exist.
func RunMigrations(db *sql.DB, table string) error {
	if table == "" {
		table = DefaultTable
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			token TEXT NOT NULL,
			amount INTEGER NOT NULL,
			nonce TEXT NOT NULL UNIQUE,
			transaction_id TEXT,
			payment_token_number TEXT,
			signature TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_transaction_id_idx ON %[1]s (transaction_id);`, table),
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

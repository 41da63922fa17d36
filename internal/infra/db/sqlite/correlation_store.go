package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/mattn/go-sqlite3"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/repository"
)

var (
	_ repository.CorrelationStore   = (*CorrelationStore)(nil)
	_ repository.TransactionManager = (*TxManager)(nil)
)

type CorrelationStore struct {
	db    *sql.DB
	table string
}

func NewCorrelationStore(db *sql.DB, table string) *CorrelationStore {
	if table == "" {
		table = DefaultTable
	}
	return &CorrelationStore{db: db, table: table}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *CorrelationStore) conn(tx repository.Tx) (execer, error) {
	switch v := tx.(type) {
	case *sql.Tx:
		return v, nil
	case nil:
		if s.db != nil {
			return s.db, nil
		}
		return nil, domain.ErrInvalidArgument
	default:
		return nil, domain.ErrInvalidExecContext
	}
}

func (s *CorrelationStore) Insert(ctx context.Context, tx repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error) {
	ex, err := s.conn(tx)
	if err != nil {
		return 0, err
	}
	res, err := ex.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (token, amount, nonce) VALUES (?, ?, ?)`, s.table),
		paymentToken, amountCents, nonce,
	)
	if err != nil {
		var sqErr sqlite3.Error
		if errors.As(err, &sqErr) && sqErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, domain.ErrAlreadyExists
		}
		return 0, domain.ErrOperationFailed
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return id, nil
}

func (s *CorrelationStore) Update(ctx context.Context, tx repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error) {
	ex, err := s.conn(tx)
	if err != nil {
		return false, err
	}
	res, err := ex.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET transaction_id = ?, payment_token_number = ?, signature = ? WHERE id = ? AND transaction_id IS NULL`, s.table),
		transactionID, paymentTokenNumber, signature, id,
	)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	return affected == 1, nil
}

// FindByNonce has no row lock; the single-connection pool serializes transactions instead.
func (s *CorrelationStore) FindByNonce(ctx context.Context, tx repository.Tx, nonce string) (*model.CorrelationRecord, error) {
	ex, err := s.conn(tx)
	if err != nil {
		return nil, err
	}
	row := ex.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, nonce, token, amount, transaction_id, payment_token_number, signature, created_at
		 FROM %s WHERE nonce = ?`, s.table),
		nonce,
	)

	var (
		r                      model.CorrelationRecord
		txID, tokenNumber, sig sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Nonce, &r.PaymentToken, &r.AmountCents, &txID, &tokenNumber, &sig, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	r.TransactionID = nullString(txID)
	r.PaymentTokenNumber = nullString(tokenNumber)
	r.Signature = nullString(sig)
	return &r, nil
}

func (s *CorrelationStore) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	ex, err := s.conn(tx)
	if err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// TxManager runs callbacks inside a *sql.Tx. Isolation options are ignored;
// SQLite transactions are serializable.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

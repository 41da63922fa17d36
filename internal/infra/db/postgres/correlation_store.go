package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/repository"
)

var _ repository.CorrelationStore = (*correlationStore)(nil)

const uniqueViolation = "23505"

type correlationStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewCorrelationStore binds the store to table; the name must already be a
// validated identifier (see config).
func NewCorrelationStore(pool *pgxpool.Pool, table string) *correlationStore {
	if table == "" {
		table = DefaultTable
	}
	return &correlationStore{pool: pool, table: table}
}

func (s *correlationStore) Insert(ctx context.Context, tx repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error) {
	q := fmt.Sprintf(`INSERT INTO %s (token, amount, nonce) VALUES ($1, $2, $3) RETURNING id;`, s.table)
	row, err := pickRow(ctx, s.pool, tx, q, paymentToken, amountCents, nonce)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, domain.ErrAlreadyExists
		}
		return 0, domain.ErrOperationFailed
	}
	return id, nil
}

func (s *correlationStore) Update(ctx context.Context, tx repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error) {
	q := fmt.Sprintf(`UPDATE %s SET transaction_id=$2, payment_token_number=$3, signature=$4 WHERE id=$1 AND transaction_id IS NULL;`, s.table)
	tag, err := execSQL(ctx, s.pool, tx, q, id, transactionID, paymentTokenNumber, signature)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() > 0, nil
}

func (s *correlationStore) FindByNonce(ctx context.Context, tx repository.Tx, nonce string) (*model.CorrelationRecord, error) {
	q := fmt.Sprintf(`SELECT id, nonce, token, amount, transaction_id, payment_token_number, signature, created_at FROM %s WHERE nonce=$1`, s.table)
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, s.pool, tx, q, nonce)
	if err != nil {
		return nil, err
	}

	r := &model.CorrelationRecord{}
	if err := row.Scan(&r.ID, &r.Nonce, &r.PaymentToken, &r.AmountCents, &r.TransactionID, &r.PaymentTokenNumber, &r.Signature, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return r, nil
}

func (s *correlationStore) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id=$1;`, s.table)
	if _, err := execSQL(ctx, s.pool, tx, q, id); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

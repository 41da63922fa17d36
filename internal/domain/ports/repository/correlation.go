package repository

import (
	"context"

	"mbills-payments/internal/domain/model"
)

// -----------------------------
// Payment correlation records
// -----------------------------

// CorrelationStore persists the nonce <-> transaction mapping for in-flight and
// completed sales. Implementations must enforce nonce uniqueness.
type CorrelationStore interface {
	// Insert creates a provisional record and returns its id.
	// A duplicate nonce yields domain.ErrAlreadyExists.
	Insert(ctx context.Context, tx Tx, nonce, paymentToken string, amountCents int64) (int64, error)
	// Update confirms a provisional record. It reports false when no provisional
	// record with that id exists.
	Update(ctx context.Context, tx Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error)
	// FindByNonce returns domain.ErrNotFound when no record matches. Inside a
	// transaction the row is locked until commit where the backend supports it.
	FindByNonce(ctx context.Context, tx Tx, nonce string) (*model.CorrelationRecord, error)
	// Delete is idempotent.
	Delete(ctx context.Context, tx Tx, id int64) error
}

// Package memory keeps correlation records in process memory. It backs
// development runs and tests; records do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/repository"
)

var (
	_ repository.CorrelationStore   = (*CorrelationStore)(nil)
	_ repository.TransactionManager = (*TxManager)(nil)
)

type CorrelationStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*model.CorrelationRecord
	byNonce map[string]int64
	now     func() time.Time
}

func NewCorrelationStore() *CorrelationStore {
	return &CorrelationStore{
		byID:    make(map[int64]*model.CorrelationRecord),
		byNonce: make(map[string]int64),
		now:     time.Now,
	}
}

func (s *CorrelationStore) Insert(ctx context.Context, _ repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byNonce[nonce]; ok {
		return 0, domain.ErrAlreadyExists
	}
	s.nextID++
	s.byID[s.nextID] = &model.CorrelationRecord{
		ID:           s.nextID,
		Nonce:        nonce,
		PaymentToken: paymentToken,
		AmountCents:  amountCents,
		CreatedAt:    s.now(),
	}
	s.byNonce[nonce] = s.nextID
	return s.nextID, nil
}

func (s *CorrelationStore) Update(ctx context.Context, _ repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.TransactionID != nil {
		return false, nil
	}
	r.TransactionID = &transactionID
	r.PaymentTokenNumber = &paymentTokenNumber
	r.Signature = &signature
	return true, nil
}

func (s *CorrelationStore) FindByNonce(ctx context.Context, _ repository.Tx, nonce string) (*model.CorrelationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNonce[nonce]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *CorrelationStore) Delete(ctx context.Context, _ repository.Tx, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		delete(s.byNonce, r.Nonce)
		delete(s.byID, id)
	}
	return nil
}

// TxManager serializes callbacks with a mutex. There is no rollback: a failing
// callback keeps whatever it already wrote.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager { return &TxManager{} }

func (m *TxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

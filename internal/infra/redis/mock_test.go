//go:build !integration

package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/repository"
)

// --- In-memory RedisClient ---

type mockRedisClient struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration

	GetErr  error
	IncrErr error
}

var _ RedisClient = (*mockRedisClient)(nil)

func newMockRedis() *mockRedisClient {
	return &mockRedisClient{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttl[key] = expiration
	return nil
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrErr != nil {
		return 0, m.IncrErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttl[key] = expiration
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.ttl, k)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

func (m *mockRedisClient) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// --- Inner store ---

type mockInnerStore struct {
	FindCalls int
	records   map[string]*model.CorrelationRecord
}

var _ repository.CorrelationStore = (*mockInnerStore)(nil)

func (m *mockInnerStore) Insert(ctx context.Context, tx repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error) {
	id := int64(len(m.records) + 1)
	m.records[nonce] = &model.CorrelationRecord{ID: id, Nonce: nonce, PaymentToken: paymentToken, AmountCents: amountCents}
	return id, nil
}

func (m *mockInnerStore) Update(ctx context.Context, tx repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error) {
	for _, r := range m.records {
		if r.ID == id && r.TransactionID == nil {
			r.TransactionID = &transactionID
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInnerStore) FindByNonce(ctx context.Context, tx repository.Tx, nonce string) (*model.CorrelationRecord, error) {
	m.FindCalls++
	r, ok := m.records[nonce]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockInnerStore) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	for k, r := range m.records {
		if r.ID == id {
			delete(m.records, k)
		}
	}
	return nil
}

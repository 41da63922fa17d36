//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/adapter"
	"mbills-payments/internal/domain/ports/repository"
	"mbills-payments/internal/usecase"
)

// -----------------------------
// Call log shared by mocks
// -----------------------------

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *callLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// =============================
// Repositories
// =============================

// ---- In-memory CorrelationStore ----

type MockCorrelationStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*model.CorrelationRecord
	log     *callLog

	InsertFunc func(ctx context.Context, tx repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error)
	UpdateFunc func(ctx context.Context, tx repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error)
	DeleteFunc func(ctx context.Context, tx repository.Tx, id int64) error
}

var _ repository.CorrelationStore = (*MockCorrelationStore)(nil)

func NewMockCorrelationStore(log *callLog) *MockCorrelationStore {
	return &MockCorrelationStore{records: map[int64]*model.CorrelationRecord{}, log: log}
}

func (m *MockCorrelationStore) Insert(ctx context.Context, tx repository.Tx, nonce, paymentToken string, amountCents int64) (int64, error) {
	m.log.add("insert")
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, nonce, paymentToken, amountCents)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Nonce == nonce {
			return 0, domain.ErrAlreadyExists
		}
	}
	m.nextID++
	m.records[m.nextID] = &model.CorrelationRecord{ID: m.nextID, Nonce: nonce, PaymentToken: paymentToken, AmountCents: amountCents}
	return m.nextID, nil
}

func (m *MockCorrelationStore) Update(ctx context.Context, tx repository.Tx, id int64, transactionID, paymentTokenNumber, signature string) (bool, error) {
	m.log.add("update")
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, id, transactionID, paymentTokenNumber, signature)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok || r.TransactionID != nil {
		return false, nil
	}
	r.TransactionID, r.PaymentTokenNumber, r.Signature = &transactionID, &paymentTokenNumber, &signature
	return true, nil
}

func (m *MockCorrelationStore) FindByNonce(ctx context.Context, tx repository.Tx, nonce string) (*model.CorrelationRecord, error) {
	m.log.add("find")
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Nonce == nonce {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCorrelationStore) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.log.add("delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MockCorrelationStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *MockCorrelationStore) Only() *model.CorrelationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		cp := *r
		return &cp
	}
	return nil
}

// ---- TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc is set.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Adapters
// =============================

type transportCall struct {
	URL        string
	Credential string
	Payload    any
}

type MockTransport struct {
	mu    sync.Mutex
	Calls []transportCall
	log   *callLog

	PostFunc func(ctx context.Context, url, credential string, payload any) (model.GatewayResponse, error)
}

var _ adapter.Transport = (*MockTransport)(nil)

func (m *MockTransport) Post(ctx context.Context, url, credential string, payload any) (model.GatewayResponse, error) {
	m.log.add("post")
	m.mu.Lock()
	m.Calls = append(m.Calls, transportCall{URL: url, Credential: credential, Payload: payload})
	m.mu.Unlock()
	if m.PostFunc != nil {
		return m.PostFunc(ctx, url, credential, payload)
	}
	return model.GatewayResponse{}, nil
}

type MockSigner struct {
	Nonces []string
	Err    error
}

var _ adapter.RequestSigner = (*MockSigner)(nil)

func (m *MockSigner) Credential(url, nonce string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Nonces = append(m.Nonces, nonce)
	return "cred:" + url + ":" + nonce, nil
}

type staticEndpoints struct{}

func (staticEndpoints) Sale() string        { return "https://gw/transaction/sale" }
func (staticEndpoints) Test() string        { return "https://gw/system/test" }
func (staticEndpoints) TestWebhook() string { return "https://gw/system/testwebhook" }
func (staticEndpoints) TransactionStatus(id string) string {
	return "https://gw/transaction/" + id + "/status"
}

// sequenceTokens hands out predictable tokens and nonces.
type sequenceTokens struct {
	mu  sync.Mutex
	n   int
	Err error
}

func (s *sequenceTokens) Nonce() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("nonce-%02d-aaaaaaaaaaaaaaaa", s.n), nil
}

func (s *sequenceTokens) PaymentToken() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "12345678", nil
}

// -----------------------------
// Fixture
// -----------------------------

type gatewayFixture struct {
	log       *callLog
	store     *MockCorrelationStore
	transport *MockTransport
	signer    *MockSigner
	tokens    *sequenceTokens
	tm        *MockTxManager
}

func newGatewayFixture() *gatewayFixture {
	log := &callLog{}
	return &gatewayFixture{
		log:       log,
		store:     NewMockCorrelationStore(log),
		transport: &MockTransport{log: log},
		signer:    &MockSigner{},
		tokens:    &sequenceTokens{},
		tm:        NewMockTxManager(),
	}
}

func (f *gatewayFixture) deps(production bool) usecase.GatewayDeps {
	return usecase.GatewayDeps{
		Transport:  f.transport,
		Signer:     f.signer,
		Endpoints:  staticEndpoints{},
		Production: production,
	}
}

func (f *gatewayFixture) paymentUC(production bool) usecase.PaymentUseCase {
	return usecase.NewPaymentUseCase(f.store, f.deps(production), f.tokens, newTestLogger())
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func okSaleResponse() model.GatewayResponse {
	return model.GatewayResponse{
		"statusdescription":  "OK",
		"transactionid":      "tx-1001",
		"paymenttokennumber": "987654",
		"auth":               map[string]any{"signature": "sig-abc"},
	}
}

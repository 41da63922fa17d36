//go:build !integration

package apiv1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	apiv1 "mbills-payments/internal/infra/api/apiv1"
)

//
// ---------------- use case mocks ----------------
//

type mockPaymentUC struct {
	RequestPaymentFunc func(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error)
	TestConnectionOK   bool
	TestWebhookErr     error
}

func (m *mockPaymentUC) RequestPayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error) {
	return m.RequestPaymentFunc(ctx, req)
}
func (m *mockPaymentUC) TestConnection(ctx context.Context) bool { return m.TestConnectionOK }
func (m *mockPaymentUC) TestWebhook(ctx context.Context) error   { return m.TestWebhookErr }

type mockStatusUC struct {
	Status *model.TransactionStatus
	Err    error
}

func (m *mockStatusUC) TransactionStatus(ctx context.Context, id string) (*model.TransactionStatus, error) {
	return m.Status, m.Err
}
func (m *mockStatusUC) IsPaid(ctx context.Context, id string) bool {
	return m.Err == nil && m.Status.Paid()
}

//
// -------------------- helpers --------------------
//

func newRouter(pay *mockPaymentUC, st *mockStatusUC) *chi.Mux {
	r := chi.NewRouter()
	srv := apiv1.NewServer(pay, st, apiv1.Defaults{WebhookURL: "https://shop/cb", AppName: "Shop"}, nil)
	apiv1.RegisterAPIV1(r, srv)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

//
// -------------------- tests --------------------
//

func TestCreatePayment(t *testing.T) {
	t.Run("should map the body and return 201", func(t *testing.T) {
		var got *model.PaymentRequest
		pay := &mockPaymentUC{RequestPaymentFunc: func(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error) {
			got = req
			return &model.PaymentResult{Nonce: "n", TransactionID: "tx", PaymentTokenNumber: "42", AmountCents: 120, DeepLink: "mbillsdemo://x"}, nil
		}}
		rec := do(newRouter(pay, &mockStatusUC{}), http.MethodPost, "/api/v1/payments", apiv1.CreatePaymentRequest{
			Items: []apiv1.PaymentItem{{Name: "Pepsi", UnitPriceCents: 120}},
		})

		if rec.Code != http.StatusCreated {
			t.Fatalf("want 201, got %d, body=%s", rec.Code, rec.Body.String())
		}
		if got.Currency != "EUR" || got.WebhookURL != "https://shop/cb" || got.AppName != "Shop" {
			t.Errorf("defaults not applied: %+v", got)
		}
		if !got.Itemized() || got.Items[0].Quantity != 1 {
			t.Errorf("expected itemized request with quantity 1, got %+v", got.Items)
		}
		var body apiv1.Payment
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.QRCodeSVG != "https://qrdemo.mbills.si/qr/svg/type1/42" {
			t.Errorf("unexpected qr %q", body.QRCodeSVG)
		}
	})

	t.Run("should map domain errors to status codes", func(t *testing.T) {
		cases := map[error]int{
			domain.ErrUnsupportedCurrency: http.StatusUnprocessableEntity,
			domain.ErrAmountBelowMinimum:  http.StatusUnprocessableEntity,
			domain.ErrGatewayRejected:     http.StatusBadGateway,
			domain.ErrAmbiguousState:      http.StatusConflict,
			domain.ErrOperationFailed:     http.StatusInternalServerError,
		}
		for e, want := range cases {
			pay := &mockPaymentUC{RequestPaymentFunc: func(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error) {
				return nil, e
			}}
			rec := do(newRouter(pay, &mockStatusUC{}), http.MethodPost, "/api/v1/payments", apiv1.CreatePaymentRequest{AmountCents: 100})
			if rec.Code != want {
				t.Errorf("%v: want %d, got %d", e, want, rec.Code)
			}
		}
	})

	t.Run("should reject malformed bodies", func(t *testing.T) {
		r := newRouter(&mockPaymentUC{}, &mockStatusUC{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBufferString(`{"amount_cents":"x"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})
}

func TestTransactionRoutes(t *testing.T) {
	paid := model.TransactionStatusUserPaid
	st := &mockStatusUC{Status: &model.TransactionStatus{TransactionID: "tx", Code: &paid}}
	r := newRouter(&mockPaymentUC{}, st)

	rec := do(r, http.MethodGet, "/api/v1/transactions/tx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var body apiv1.TransactionStatus
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.StatusCode == nil || *body.StatusCode != 3 || body.Status != "paid" || !body.Paid {
		t.Errorf("unexpected body %+v", body)
	}

	rec = do(r, http.MethodGet, "/api/v1/transactions/tx/paid", nil)
	var p apiv1.PaidResponse
	_ = json.NewDecoder(rec.Body).Decode(&p)
	if !p.Paid || p.TransactionID != "tx" {
		t.Errorf("unexpected paid body %+v", p)
	}

	failing := newRouter(&mockPaymentUC{}, &mockStatusUC{Err: domain.ErrNoResult})
	if rec := do(failing, http.MethodGet, "/api/v1/transactions/tx", nil); rec.Code != http.StatusBadGateway {
		t.Errorf("want 502, got %d", rec.Code)
	}
}

func TestSystemRoutes(t *testing.T) {
	r := newRouter(&mockPaymentUC{TestConnectionOK: true, TestWebhookErr: domain.ErrNoResult}, &mockStatusUC{})

	rec := do(r, http.MethodPost, "/api/v1/system/test", nil)
	var ok apiv1.SystemTestResponse
	_ = json.NewDecoder(rec.Body).Decode(&ok)
	if rec.Code != http.StatusOK || !ok.OK {
		t.Fatalf("unexpected %d %+v", rec.Code, ok)
	}

	if rec := do(r, http.MethodPost, "/api/v1/system/test-webhook", nil); rec.Code != http.StatusBadGateway {
		t.Fatalf("want 502, got %d", rec.Code)
	}
}

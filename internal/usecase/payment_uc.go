package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/adapter"
	"mbills-payments/internal/domain/ports/repository"
	"mbills-payments/internal/infra/logging"
	"mbills-payments/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// RequestPayment persists a correlation record, submits the sale and confirms
	// the record with the identifiers the gateway assigned.
	RequestPayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error)
	// TestConnection reports whether the credentials are accepted by system/test.
	TestConnection(ctx context.Context) bool
	// TestWebhook asks the gateway to call the configured test webhook.
	TestWebhook(ctx context.Context) error
}

// GatewayDeps groups the outbound side of the use cases.
type GatewayDeps struct {
	Transport  adapter.Transport
	Signer     adapter.RequestSigner
	Endpoints  adapter.GatewayEndpoints
	Production bool
}

type paymentUC struct {
	store  repository.CorrelationStore
	gw     GatewayDeps
	tokens adapter.TokenSource
	log    *zerolog.Logger
}

func NewPaymentUseCase(store repository.CorrelationStore, gw GatewayDeps, tokens adapter.TokenSource, logger *zerolog.Logger) *paymentUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &paymentUC{store: store, gw: gw, tokens: tokens, log: logger}
}

// salePayload is the body of transaction/sale. Empty optional fields are sent as null.
type salePayload struct {
	Amount           int64   `json:"amount"`
	Currency         string  `json:"currency"`
	Purpose          *string `json:"purpose"`
	PaymentReference *string `json:"paymentreference"`
	OrderID          *string `json:"orderid"`
	ChannelID        *string `json:"channelid"`
	ApplicationName  *string `json:"applicationname"`
	WebhookURL       *string `json:"webhookurl"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (u *paymentUC) RequestPayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.RequestPayment")()

	if req == nil {
		return nil, domain.ErrInvalidArgument
	}

	// Validating
	currency := req.NormalizedCurrency()
	if !model.SupportedCurrency(currency) {
		metrics.IncPaymentRequest("rejected", "currency")
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, req.Currency)
	}

	// Pricing
	amount, purpose, err := req.Price()
	if err != nil {
		metrics.IncPaymentRequest("rejected", "items")
		return nil, err
	}
	if amount < model.MinimumAmountCents {
		metrics.IncPaymentRequest("rejected", "amount")
		return nil, fmt.Errorf("%w: %d < %d", domain.ErrAmountBelowMinimum, amount, model.MinimumAmountCents)
	}

	// Persisting
	token, err := u.tokens.PaymentToken()
	if err != nil {
		metrics.IncPaymentRequest("failed", "random")
		return nil, err
	}
	nonce, err := u.tokens.Nonce()
	if err != nil {
		metrics.IncPaymentRequest("failed", "random")
		return nil, err
	}
	ctx = logging.WithNonce(ctx, logging.Redact(nonce, false))
	log := logging.With(ctx, u.log)

	id, err := u.store.Insert(ctx, repository.NoTX, nonce, token, amount)
	if err != nil {
		log.Error().Err(err).Msg("failed to persist correlation record")
		metrics.IncPaymentRequest("failed", "store")
		return nil, fmt.Errorf("persist correlation record: %w", err)
	}

	// Signing
	saleURL := u.gw.Endpoints.Sale()
	credential, err := u.gw.Signer.Credential(saleURL, token)
	if err != nil {
		u.discard(ctx, log, id)
		metrics.IncPaymentRequest("failed", "sign")
		return nil, fmt.Errorf("sign sale: %w", err)
	}

	// Submitting
	payload := salePayload{
		Amount:           amount,
		Currency:         currency,
		Purpose:          nullable(purpose),
		PaymentReference: nullable(req.PaymentReference),
		OrderID:          nullable(req.OrderID),
		ChannelID:        nullable(req.ChannelID),
		ApplicationName:  nullable(req.AppName),
		WebhookURL:       nullable(model.WebhookWithNonce(req.WebhookURL, nonce)),
	}
	resp, err := post(ctx, u.gw.Transport, "sale", saleURL, credential, payload)
	if err != nil {
		u.discard(ctx, log, id)
		metrics.IncPaymentRequest("rejected", "no_result")
		return nil, fmt.Errorf("%w: %w", domain.ErrGatewayRejected, err)
	}

	// Reconciling
	if desc := resp.String("statusdescription"); desc != "OK" {
		u.discard(ctx, log, id)
		log.Warn().Str("statusdescription", desc).Str("statuscode", resp.String("statuscode")).Msg("sale rejected by gateway")
		metrics.IncPaymentRequest("rejected", "not_ok")
		return nil, fmt.Errorf("%w: %s", domain.ErrGatewayRejected, desc)
	}

	transactionID := resp.String("transactionid")
	tokenNumber := resp.String("paymenttokennumber")
	signature := resp.Object("auth").String("signature")

	updated, err := u.store.Update(ctx, repository.NoTX, id, transactionID, tokenNumber, signature)
	if err != nil || !updated {
		// The sale exists on the gateway side; keep the record for manual reconciliation.
		log.Error().Err(err).Int64("record_id", id).Str("transaction_id", transactionID).
			Msg("sale accepted but correlation record was not confirmed")
		metrics.IncPaymentRequest("ambiguous", "update")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAmbiguousState, err)
		}
		return nil, domain.ErrAmbiguousState
	}

	deepLink := model.DeepLinkURL(tokenNumber, u.gw.Production)
	merged := make(model.GatewayResponse, len(resp)+2)
	for k, v := range resp {
		merged[k] = v
	}
	merged["deeplink_url"] = deepLink
	merged["request_nonce"] = nonce

	log.Info().Int64("amount", amount).Str("transaction_id", transactionID).Msg("sale confirmed")
	metrics.IncPaymentRequest("confirmed", "ok")

	return &model.PaymentResult{
		Nonce:              nonce,
		RecordID:           id,
		AmountCents:        amount,
		Purpose:            purpose,
		TransactionID:      transactionID,
		PaymentTokenNumber: tokenNumber,
		Signature:          signature,
		DeepLink:           deepLink,
		Production:         u.gw.Production,
		Response:           merged,
	}, nil
}

func (u *paymentUC) TestConnection(ctx context.Context) bool {
	defer logging.TraceDuration(u.log, "PaymentUC.TestConnection")()

	resp, err := signedPost(ctx, u.gw, "test", u.gw.Endpoints.Test())
	if err != nil {
		u.log.Warn().Err(err).Msg("connection test failed")
		return false
	}
	return resp.Has("transactionid")
}

func (u *paymentUC) TestWebhook(ctx context.Context) error {
	defer logging.TraceDuration(u.log, "PaymentUC.TestWebhook")()

	_, err := signedPost(ctx, u.gw, "testwebhook", u.gw.Endpoints.TestWebhook())
	return err
}

// discard removes a provisional record after a failed sale. Failures are logged only.
func (u *paymentUC) discard(ctx context.Context, log *zerolog.Logger, id int64) {
	if err := u.store.Delete(ctx, repository.NoTX, id); err != nil {
		log.Error().Err(err).Int64("record_id", id).Msg("failed to delete provisional record")
	}
}

// signedPost signs url with a fresh nonce and posts without a body.
func signedPost(ctx context.Context, gw GatewayDeps, endpoint, url string) (model.GatewayResponse, error) {
	credential, err := gw.Signer.Credential(url, "")
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", endpoint, err)
	}
	return post(ctx, gw.Transport, endpoint, url, credential, nil)
}

func post(ctx context.Context, t adapter.Transport, endpoint, url, credential string, payload any) (model.GatewayResponse, error) {
	start := time.Now()
	resp, err := t.Post(ctx, url, credential, payload)
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrNoResult):
		result = "no_result"
	case err != nil:
		result = "error"
	}
	metrics.ObserveGatewayRequest(endpoint, result, metrics.Since(start))
	return resp, err
}

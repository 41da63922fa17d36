package usecase

import (
	"context"
	"errors"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/ports/repository"
	"mbills-payments/internal/infra/logging"
	"mbills-payments/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

type WebhookUseCase interface {
	// Resolve maps the nonce from a webhook callback to the gateway transaction id.
	// A confirmed-but-provisional record yields "" and no error.
	Resolve(ctx context.Context, nonce string, deleteAfterRead bool) (string, error)
}

type webhookUC struct {
	store repository.CorrelationStore
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewWebhookUseCase(store repository.CorrelationStore, tm repository.TransactionManager, logger *zerolog.Logger) *webhookUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &webhookUC{store: store, tm: tm, log: logger}
}

func (u *webhookUC) Resolve(ctx context.Context, nonce string, deleteAfterRead bool) (string, error) {
	defer logging.TraceDuration(u.log, "WebhookUC.Resolve")()

	if nonce == "" {
		metrics.IncWebhookResolution("not_found")
		return "", domain.ErrNotFound
	}
	ctx = logging.WithNonce(ctx, logging.Redact(nonce, false))
	log := logging.With(ctx, u.log)

	var (
		transactionID string
		err           error
	)
	if deleteAfterRead {
		transactionID, err = u.consume(ctx, nonce)
	} else {
		transactionID, err = u.lookup(ctx, nonce)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		metrics.IncWebhookResolution("not_found")
		return "", domain.ErrNotFound
	case err != nil:
		log.Error().Err(err).Msg("webhook resolution failed")
		metrics.IncWebhookResolution("error")
		return "", err
	}

	if transactionID == "" {
		log.Warn().Msg("webhook for a provisional record")
		metrics.IncWebhookResolution("provisional")
	} else {
		metrics.IncWebhookResolution("resolved")
	}
	return transactionID, nil
}

// lookup reads the record outside a transaction so a read-through cache can
// serve it.
func (u *webhookUC) lookup(ctx context.Context, nonce string) (string, error) {
	rec, err := u.store.FindByNonce(ctx, repository.NoTX, nonce)
	if err != nil {
		return "", err
	}
	return rec.TransactionIDOrEmpty(), nil
}

// consume finds and deletes the record under one transaction.
func (u *webhookUC) consume(ctx context.Context, nonce string) (string, error) {
	var transactionID string
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		rec, err := u.store.FindByNonce(ctx, tx, nonce)
		if err != nil {
			return err
		}
		if err := u.store.Delete(ctx, tx, rec.ID); err != nil {
			return err
		}
		transactionID = rec.TransactionIDOrEmpty()
		return nil
	})
	return transactionID, err
}

package usecase

import (
	"context"
	"fmt"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatusUseCase = (*statusUC)(nil)

type StatusUseCase interface {
	TransactionStatus(ctx context.Context, transactionID string) (*model.TransactionStatus, error)
	// IsPaid is true only when the gateway reports the paid status code.
	IsPaid(ctx context.Context, transactionID string) bool
}

type statusUC struct {
	gw  GatewayDeps
	log *zerolog.Logger
}

func NewStatusUseCase(gw GatewayDeps, logger *zerolog.Logger) *statusUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &statusUC{gw: gw, log: logger}
}

func (u *statusUC) TransactionStatus(ctx context.Context, transactionID string) (*model.TransactionStatus, error) {
	defer logging.TraceDuration(u.log, "StatusUC.TransactionStatus")()

	if transactionID == "" {
		return nil, fmt.Errorf("%w: empty transaction id", domain.ErrInvalidArgument)
	}

	resp, err := signedPost(ctx, u.gw, "status", u.gw.Endpoints.TransactionStatus(transactionID))
	if err != nil {
		u.log.Warn().Err(err).Str("transaction_id", transactionID).Msg("status lookup failed")
		return nil, err
	}

	st := &model.TransactionStatus{TransactionID: transactionID, Response: resp}
	if id := resp.String("transactionid"); id != "" {
		st.TransactionID = id
	}
	if n, ok := resp.Int("status"); ok {
		code := model.TransactionStatusCode(n)
		st.Code = &code
	}
	return st, nil
}

func (u *statusUC) IsPaid(ctx context.Context, transactionID string) bool {
	st, err := u.TransactionStatus(ctx, transactionID)
	if err != nil {
		return false
	}
	return st.Paid()
}

package adapter

import (
	"context"

	"mbills-payments/internal/domain/model"
)

// Transport sends one authenticated request to the mBills API.
//
// Any response that is empty or not a JSON object, and any HTTP-level failure,
// is reported as domain.ErrNoResult; callers cannot tell them apart.
type Transport interface {
	// Post sends payload as JSON with "Authorization: Basic <credential>".
	// A nil payload sends the request without a body.
	Post(ctx context.Context, url, credential string, payload any) (model.GatewayResponse, error)
}

package mbills

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.Transport = (*HTTPTransport)(nil)

// DefaultTimeout bounds every gateway call.
const DefaultTimeout = 60 * time.Second

const maxResponseBytes = 1 << 20

// HTTPTransport implements adapter.Transport over net/http.
type HTTPTransport struct {
	client *http.Client
	log    *zerolog.Logger
}

// NewHTTPTransport builds a transport with a fixed per-request timeout.
// A nil client gets a fresh http.Client.
func NewHTTPTransport(client *http.Client, timeout time.Duration, logger *zerolog.Logger) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.Timeout = timeout
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &HTTPTransport{client: &c, log: logger}
}

// Post sends payload (when non-nil) as JSON and decodes a JSON object response.
// Every failure mode collapses into domain.ErrNoResult.
func (t *HTTPTransport) Post(ctx context.Context, url, credential string, payload any) (model.GatewayResponse, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+credential)

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Warn().Err(err).Str("url", url).Msg("mbills request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrNoResult, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrNoResult, err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		t.log.Warn().Int("status", resp.StatusCode).Int("bytes", len(raw)).Str("url", url).Msg("mbills response is not a JSON object")
		return nil, domain.ErrNoResult
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrNoResult, err)
	}
	return model.GatewayResponse(out), nil
}

package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/infra/logging"
	"mbills-payments/internal/usecase"
)

const maxBodyBytes = 64 << 10

// Defaults fill request fields the caller left empty.
type Defaults struct {
	WebhookURL string
	AppName    string
	ChannelID  string
}

// Server implements the /api/v1 handlers.
type Server struct {
	pay      usecase.PaymentUseCase
	status   usecase.StatusUseCase
	defaults Defaults
	log      *zerolog.Logger
}

func NewServer(pay usecase.PaymentUseCase, status usecase.StatusUseCase, defaults Defaults, logger *zerolog.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{pay: pay, status: status, defaults: defaults, log: logger}
}

// RegisterAPIV1 mounts the handlers under /api/v1 behind mws.
func RegisterAPIV1(r chi.Router, s *Server, mws ...func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mws...)
		r.Post("/payments", s.CreatePayment)
		r.Get("/transactions/{id}", s.GetTransaction)
		r.Get("/transactions/{id}/paid", s.GetTransactionPaid)
		r.Post("/system/test", s.SystemTest)
		r.Post("/system/test-webhook", s.SystemTestWebhook)
	})
}

func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var body CreatePaymentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Error{Error: "invalid request body"})
		return
	}

	req := s.toPaymentRequest(body)
	res, err := s.pay.RequestPayment(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, Payment{
		Nonce:              res.Nonce,
		TransactionID:      res.TransactionID,
		PaymentTokenNumber: res.PaymentTokenNumber,
		AmountCents:        res.AmountCents,
		Purpose:            res.Purpose,
		DeepLink:           res.DeepLink,
		QRCodeSVG:          res.QRCodeURL(true),
		QRCodePNG:          res.QRCodeURL(false),
		Response:           res.Response,
	})
}

func (s *Server) toPaymentRequest(body CreatePaymentRequest) *model.PaymentRequest {
	req := &model.PaymentRequest{
		Purpose:           body.Purpose,
		Currency:          body.Currency,
		AmountCents:       body.AmountCents,
		DisplayItemPrices: body.DisplayItemPrices,
		WebhookURL:        firstNonEmpty(body.WebhookURL, s.defaults.WebhookURL),
		AppName:           firstNonEmpty(body.AppName, s.defaults.AppName),
		OrderID:           body.OrderID,
		PaymentReference:  body.PaymentReference,
		ChannelID:         firstNonEmpty(body.ChannelID, s.defaults.ChannelID),
	}
	if req.Currency == "" {
		req.Currency = model.CurrencyEUR
	}
	if body.Items != nil {
		req.Items = []model.Item{}
		for _, it := range body.Items {
			req.AddItem(it.Name, it.UnitPriceCents, it.Quantity)
		}
	}
	return req
}

func (s *Server) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.status.TransactionStatus(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := TransactionStatus{TransactionID: st.TransactionID, Paid: st.Paid(), Response: st.Response, Status: "unknown"}
	if st.Code != nil {
		c := int(*st.Code)
		out.StatusCode = &c
		out.Status = st.Code.String()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetTransactionPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, PaidResponse{TransactionID: id, Paid: s.status.IsPaid(r.Context(), id)})
}

func (s *Server) SystemTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SystemTestResponse{OK: s.pay.TestConnection(r.Context())})
}

func (s *Server) SystemTestWebhook(w http.ResponseWriter, r *http.Request) {
	if err := s.pay.TestWebhook(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SystemTestResponse{OK: true})
}

// writeDomainError maps the error taxonomy onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrAmountBelowMinimum),
		errors.Is(err, domain.ErrInvalidArgument):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrAmbiguousState):
		code, msg = http.StatusConflict, "payment submitted but not recorded; reconcile manually"
	case errors.Is(err, domain.ErrGatewayRejected), errors.Is(err, domain.ErrNoResult):
		code, msg = http.StatusBadGateway, err.Error()
	}

	l := logging.With(r.Context(), s.log)
	if code >= http.StatusInternalServerError || code == http.StatusConflict {
		l.Error().Err(err).Int("status", code).Msg("api request failed")
	} else {
		l.Debug().Err(err).Int("status", code).Msg("api request rejected")
	}
	writeJSON(w, code, Error{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

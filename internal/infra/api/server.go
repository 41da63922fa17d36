package api

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mbills-payments/internal/domain"
	"mbills-payments/internal/infra/api/apiv1"
	"mbills-payments/internal/infra/i18n"
	"mbills-payments/internal/infra/logging"
	"mbills-payments/internal/usecase"
)

// Server wires the gateway webhook route to the webhook and status use cases.
type Server struct {
	webhook     usecase.WebhookUseCase
	status      usecase.StatusUseCase
	path        string
	deleteNonce bool
	tr          *i18n.Translator
	log         *zerolog.Logger
}

// NewServer constructs the webhook side of the HTTP layer. path must match the
// path portion of mbills.webhook_url.
func NewServer(webhook usecase.WebhookUseCase, status usecase.StatusUseCase, path string, deleteNonce bool, logger *zerolog.Logger) *Server {
	if path == "" {
		path = "/mbills/webhook"
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{webhook: webhook, status: status, path: path, deleteNonce: deleteNonce, tr: i18n.Default(), log: logger}
}

// WithTranslator localizes the webhook result page.
func (s *Server) WithTranslator(tr *i18n.Translator) *Server {
	if tr != nil {
		s.tr = tr
	}
	return s
}

// RouterDeps collects everything NewRouter mounts.
type RouterDeps struct {
	Webhook        *Server
	API            *apiv1.Server
	Auth           *AuthManager
	Limiter        Limiter // nil disables webhook rate limiting
	LimiterKey     func(clientAddr string) string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	Logger         *zerolog.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 90 * time.Second
	}
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(d.Logger), Recover(d.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	keyFn := d.LimiterKey
	if keyFn == nil {
		keyFn = func(addr string) string { return "rate_limit:webhook:" + addr }
	}
	hook := Chain(http.HandlerFunc(d.Webhook.handleWebhook),
		RateLimit(d.Limiter, keyFn, d.RateLimit, d.RateWindow, d.Logger),
		Timeout(d.RequestTimeout),
	)
	r.Method(http.MethodGet, d.Webhook.path, hook)
	r.Method(http.MethodPost, d.Webhook.path, hook)

	apiv1.RegisterAPIV1(r, d.API, d.Auth.Middleware(d.Logger), Timeout(d.RequestTimeout))
	return r
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	nonce := r.URL.Query().Get("nonce")
	transactionID, err := s.webhook.Resolve(ctx, nonce, s.deleteNonce)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		l.Info().Msg("webhook for unknown or consumed nonce")
		s.renderHTML(w, http.StatusNotFound, s.page(false, "", "payment_unknown"))
		return
	case err != nil:
		s.renderHTML(w, http.StatusInternalServerError, s.page(false, "", "payment_lookup_failed"))
		return
	case transactionID == "":
		s.renderHTML(w, http.StatusOK, s.page(false, "", "payment_not_confirmed"))
		return
	}

	paid := s.status.IsPaid(ctx, transactionID)
	l.Info().Str("transaction_id", transactionID).Bool("paid", paid).Msg("webhook resolved")
	if paid {
		s.renderHTML(w, http.StatusOK, s.page(true, transactionID, "payment_received"))
		return
	}
	s.renderHTML(w, http.StatusOK, s.page(false, transactionID, "payment_not_completed"))
}

func (s *Server) page(ok bool, transactionID, msgKey string) pageData {
	d := pageData{Lang: s.tr.Lang(), OK: ok, Msg: s.tr.T(msgKey), Title: s.tr.T("page_title"), Heading: s.tr.T("heading_not_paid")}
	if ok {
		d.Title, d.Heading = s.tr.T("page_title_ok"), s.tr.T("heading_paid")
	}
	if transactionID != "" {
		d.Transaction = s.tr.T("transaction_label", transactionID)
	}
	return d
}

type pageData struct {
	Lang        string
	OK          bool
	Title       string
	Heading     string
	Msg         string
	Transaction string
}

var page = template.Must(template.New("webhook").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55} .fail{color:#b00020}
.small{font-size:12px;color:#666}
</style>
</head>
<body>
<div class="card">
  <h2 class="{{if .OK}}ok{{else}}fail{{end}}">{{.Heading}}</h2>
  <p>{{.Msg}}</p>
  {{if .Transaction}}<div class="small">{{.Transaction}}</div>{{end}}
</div>
</body>
</html>`))

func (s *Server) renderHTML(w http.ResponseWriter, code int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = page.Execute(w, data)
}

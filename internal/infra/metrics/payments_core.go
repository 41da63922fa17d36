package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentRequestsTotal,
		gatewayRequestDuration,
		webhookResolutionsTotal,
	)
}

var (
	// result: confirmed|rejected|failed|ambiguous
	// reason: bounded (currency|amount|store|sign|no_result|not_ok|update|ok)
	paymentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mbills_payment_requests_total",
			Help: "RequestPayment outcomes by result and reason.",
		},
		[]string{"result", "reason"},
	)

	gatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mbills_gateway_request_duration_seconds",
			Help:    "Latency of calls to the mBills API by endpoint and result.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint", "result"},
	)

	// result: resolved|provisional|not_found|error
	webhookResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mbills_webhook_resolutions_total",
			Help: "Webhook nonce resolutions by result.",
		},
		[]string{"result"},
	)
)

func IncPaymentRequest(result, reason string) {
	paymentRequestsTotal.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveGatewayRequest(endpoint, result string, seconds float64) {
	gatewayRequestDuration.WithLabelValues(norm(endpoint), norm(result)).Observe(seconds)
}

func IncWebhookResolution(result string) {
	webhookResolutionsTotal.WithLabelValues(norm(result)).Inc()
}

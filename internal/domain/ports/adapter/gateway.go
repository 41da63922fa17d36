package adapter

// RequestSigner produces the value of the Basic Authorization header for one
// request. An empty nonce lets the signer draw a fresh one.
type RequestSigner interface {
	Credential(url, nonce string) (string, error)
}

// GatewayEndpoints resolves absolute mBills API URLs for the configured environment.
type GatewayEndpoints interface {
	Sale() string
	Test() string
	TestWebhook() string
	TransactionStatus(transactionID string) string
}

// TokenSource draws the random identifiers of a sale.
type TokenSource interface {
	// Nonce is the correlation nonce echoed back on the webhook.
	Nonce() (string, error)
	// PaymentToken is the decimal token used to sign the sale request.
	PaymentToken() (string, error)
}

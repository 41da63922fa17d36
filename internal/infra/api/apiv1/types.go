package apiv1

// PaymentItem is one line of an itemized payment.
type PaymentItem struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int64  `json:"quantity"`
}

// CreatePaymentRequest is the body of POST /api/v1/payments. Sending "items"
// (even empty) switches to itemized pricing and ignores amount_cents.
type CreatePaymentRequest struct {
	Purpose           string        `json:"purpose"`
	Currency          string        `json:"currency"`
	AmountCents       int64         `json:"amount_cents"`
	Items             []PaymentItem `json:"items"`
	DisplayItemPrices bool          `json:"display_item_prices"`
	WebhookURL        string        `json:"webhook_url"`
	AppName           string        `json:"app_name"`
	OrderID           string        `json:"order_id"`
	PaymentReference  string        `json:"payment_reference"`
	ChannelID         string        `json:"channel_id"`
}

type Payment struct {
	Nonce              string         `json:"nonce"`
	TransactionID      string         `json:"transaction_id"`
	PaymentTokenNumber string         `json:"payment_token_number"`
	AmountCents        int64          `json:"amount_cents"`
	Purpose            string         `json:"purpose"`
	DeepLink           string         `json:"deep_link"`
	QRCodeSVG          string         `json:"qr_code_svg"`
	QRCodePNG          string         `json:"qr_code_png"`
	Response           map[string]any `json:"response"`
}

type TransactionStatus struct {
	TransactionID string         `json:"transaction_id"`
	StatusCode    *int           `json:"status_code"`
	Status        string         `json:"status"`
	Paid          bool           `json:"paid"`
	Response      map[string]any `json:"response"`
}

type PaidResponse struct {
	TransactionID string `json:"transaction_id"`
	Paid          bool   `json:"paid"`
}

type SystemTestResponse struct {
	OK bool `json:"ok"`
}

type Error struct {
	Error string `json:"error"`
}

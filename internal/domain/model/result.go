package model

// PaymentResult is what a confirmed sale leaves behind for the caller: the gateway
// response merged with the derived deep link and the correlation nonce.
type PaymentResult struct {
	Nonce              string
	RecordID           int64
	AmountCents        int64
	Purpose            string
	TransactionID      string
	PaymentTokenNumber string
	Signature          string
	DeepLink           string
	Production         bool
	Response           GatewayResponse
}

// Field returns a raw response field (including "deeplink_url" and "request_nonce"), or nil.
func (r *PaymentResult) Field(key string) any {
	if r == nil || r.Response == nil {
		return nil
	}
	return r.Response[key]
}

// QRCodeURL returns the QR image URL for the payment token, or "" when unknown.
func (r *PaymentResult) QRCodeURL(svg bool) string {
	if r == nil {
		return ""
	}
	return QRCodeURL(r.PaymentTokenNumber, svg, r.Production)
}

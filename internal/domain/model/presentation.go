package model

import (
	"net/url"
	"strings"
)

// Presentation URLs are pure functions of the gateway token number and environment.

const gatewayDomain = "mbills.si"

// DeepLinkURL opens the wallet app directly on the transaction.
func DeepLinkURL(paymentTokenNumber string, production bool) string {
	if paymentTokenNumber == "" {
		return ""
	}
	scheme := "mbillsdemo"
	if production {
		scheme = "mbills"
	}
	return scheme + "://www." + gatewayDomain + "/dl/?type=1&token=" + paymentTokenNumber
}

// QRCodeURL returns an SVG or PNG QR image for the payment token.
func QRCodeURL(paymentTokenNumber string, svg bool, production bool) string {
	if paymentTokenNumber == "" {
		return ""
	}
	host := "qrdemo."
	if production {
		host = "qr."
	}
	format := "png"
	if svg {
		format = "svg"
	}
	return "https://" + host + gatewayDomain + "/qr/" + format + "/type1/" + paymentTokenNumber
}

// WebhookWithNonce appends the nonce as a query parameter so the callback can
// round-trip it. An empty webhook stays empty.
func WebhookWithNonce(webhook, nonce string) string {
	if webhook == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(webhook, "?") {
		sep = "&"
	}
	return webhook + sep + "nonce=" + url.QueryEscape(nonce)
}

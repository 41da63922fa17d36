package usecase

import "mbills-payments/internal/domain/model"

const defaultTestPurpose = "Testing MBills online payment"

// TestPaymentRequest is a flat-amount request; purpose defaults to a test label.
func TestPaymentRequest(amountCents int64, currency, webhookURL string, purpose ...string) *model.PaymentRequest {
	p := defaultTestPurpose
	if len(purpose) > 0 && purpose[0] != "" {
		p = purpose[0]
	}
	return &model.PaymentRequest{
		Purpose:     p,
		Currency:    currency,
		AmountCents: amountCents,
		WebhookURL:  webhookURL,
	}
}

// ItemizedPaymentRequest starts an itemized request; add lines with AddItem.
func ItemizedPaymentRequest(purpose, currency, webhookURL, appName, orderID, paymentReference, channelID string) *model.PaymentRequest {
	return &model.PaymentRequest{
		Purpose:          purpose,
		Currency:         currency,
		Items:            []model.Item{},
		WebhookURL:       webhookURL,
		AppName:          appName,
		OrderID:          orderID,
		PaymentReference: paymentReference,
		ChannelID:        channelID,
	}
}

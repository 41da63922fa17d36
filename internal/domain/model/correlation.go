package model

import "time"

// CorrelationRecord links the nonce sent with a sale request to the identifiers the
// gateway assigns once the sale is accepted. One row per payment attempt.
type CorrelationRecord struct {
	ID                 int64
	Nonce              string
	PaymentToken       string
	AmountCents        int64
	TransactionID      *string // nil while provisional
	PaymentTokenNumber *string
	Signature          *string
	CreatedAt          time.Time
}

// Confirmed reports whether the gateway has accepted the sale for this record.
func (r *CorrelationRecord) Confirmed() bool {
	return r != nil && r.TransactionID != nil && *r.TransactionID != ""
}

// TransactionIDOrEmpty returns the gateway transaction id or "" for provisional records.
func (r *CorrelationRecord) TransactionIDOrEmpty() string {
	if r == nil || r.TransactionID == nil {
		return ""
	}
	return *r.TransactionID
}

package model

// TransactionStatusCode is the numeric state reported by the status endpoint.
type TransactionStatusCode int

const (
	TransactionStatusTimeout       TransactionStatusCode = -2 // sale, no user action
	TransactionStatusUserRejected  TransactionStatusCode = -1
	TransactionStatusUserConfirmed TransactionStatusCode = 2 // sale without capture: authorized
	TransactionStatusUserPaid      TransactionStatusCode = 3 // sale with capture
	TransactionStatusVoided        TransactionStatusCode = 4
	TransactionStatusCaptured      TransactionStatusCode = 3 // capture reports the paid code
)

func (c TransactionStatusCode) String() string {
	switch c {
	case TransactionStatusTimeout:
		return "timeout"
	case TransactionStatusUserRejected:
		return "rejected"
	case TransactionStatusUserConfirmed:
		return "authorized"
	case TransactionStatusUserPaid:
		return "paid"
	case TransactionStatusVoided:
		return "voided"
	}
	return "unknown"
}

// TransactionStatus is the gateway's view of one transaction.
type TransactionStatus struct {
	TransactionID string
	Code          *TransactionStatusCode // nil when the response has no status
	Response      GatewayResponse
}

// Paid reports whether the status code is the paid code.
func (s *TransactionStatus) Paid() bool {
	return s != nil && s.Code != nil && *s.Code == TransactionStatusUserPaid
}

package model

import "mbills-payments/internal/domain"

// Credentials holds the API key pair issued by mBills and the environment flag.
type Credentials struct {
	APIKey     string
	APISecret  string
	Production bool
}

// NewCredentials validates presence of the key pair.
func NewCredentials(apiKey, apiSecret string, production bool) (Credentials, error) {
	if apiKey == "" || apiSecret == "" {
		return Credentials{}, domain.ErrInvalidArgument
	}
	return Credentials{APIKey: apiKey, APISecret: apiSecret, Production: production}, nil
}

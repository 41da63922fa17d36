package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Payment request errors
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrAmountBelowMinimum  = errors.New("amount below minimum")
	ErrGatewayRejected     = errors.New("gateway rejected the request")
	ErrNoResult            = errors.New("gateway returned no usable result")
	ErrAmbiguousState      = errors.New("gateway accepted the sale but the correlation record could not be confirmed")
)

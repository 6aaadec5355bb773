package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is deactivated")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrInvalidRole     = errors.New("invalid role")

	// Credit errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAmountExceedsMax    = errors.New("amount exceeds maximum per operation")
	ErrInsufficientBalance = errors.New("insufficient credit balance")
	ErrSameAccount         = errors.New("actor and target must differ")

	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("a ledger row already references this provider transaction")

	// Shipment errors
	ErrShipmentNotFound      = errors.New("shipment not found")
	ErrShipmentNotRefundable = errors.New("shipment is not in a refundable state")
	ErrAlreadyRefunded       = errors.New("shipment was already refunded")

	// Batch errors
	ErrBatchNotFound  = errors.New("batch not found")
	ErrBatchNotActive = errors.New("batch is no longer processing")

	// Provider errors
	ErrProviderUnavailable = errors.New("shipping provider request failed")
	ErrRateNotFound        = errors.New("rate not found or expired")
)

// Authentication errors
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

package customer

import "errors"

var (
	ErrNotFound = errors.New("customer not found")

	// ErrNoOutstandingDebt rejects an explicit repayment when the
	// customer owes nothing (settled or holding credit).
	ErrNoOutstandingDebt = errors.New("customer has no outstanding debt")

	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

package sale

import "errors"

var (
	ErrNotFound = errors.New("sales transaction not found")

	ErrEmptyTransaction = errors.New("sale has no items")

	// ErrMissingPayment rejects a cash sale with nothing paid, after
	// any available customer credit has been applied.
	ErrMissingPayment = errors.New("cash sale requires a payment")

	ErrCreditRequiresCustomer = errors.New("credit sale requires a customer")

	// ErrImmutableRecord: completed sales are never edited; corrections
	// go through the return workflow.
	ErrImmutableRecord = errors.New("completed sale cannot be modified")
)

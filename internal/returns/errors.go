package returns

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyReturn = errors.New("return has no items")

	ErrProductNotSold = errors.New("product was not sold on this transaction")

	ErrCreditRefundRequiresCustomer = errors.New("credit refund requires the sale to have a customer")

	ErrUnknownRefundMethod = errors.New("unknown refund method")
)

// ReturnExceedsAvailableError reports a requested quantity above what
// is still returnable: sold minus previously returned for the same
// (transaction, product) pair.
type ReturnExceedsAvailableError struct {
	ProductID uuid.UUID
	Requested int64
	Available int64
}

func (e *ReturnExceedsAvailableError) Error() string {
	return fmt.Sprintf("return exceeds returnable quantity for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

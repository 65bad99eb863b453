package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/ledger"
)

// RefundMethod is how a refund is issued. Cash leaves the till and
// never touches the customer ledger; Credit reverses the customer's
// balance instead.
type RefundMethod string

const (
	RefundCash   RefundMethod = "cash"
	RefundCredit RefundMethod = "credit"
)

// Return records goods coming back against one sales transaction.
type Return struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	RefundMethod  RefundMethod
	RefundAmount  decimal.Decimal
	Reason        string
	Notes         string
	Items         []Item
	CreatedAt     time.Time
}

type Item struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Total is quantity*unitPrice for this line; returns carry no
// per-line discounts.
func (i Item) Total() decimal.Decimal {
	return ledger.LineTotal(i.Quantity, i.UnitPrice, decimal.Zero)
}

// RefundTotal sums the line totals.
func RefundTotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}

	return sum
}

package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/ledger"
)

// Transaction is a completed sale. Creation computes totals and applies
// stock and ledger effects in the same atomic step; there is no pending
// state and no post-creation mutation.
type Transaction struct {
	ID             uuid.UUID
	CustomerID     *uuid.UUID
	PaymentMethod  customer.PaymentMethod
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	AmountPaid     decimal.Decimal
	ChangeAmount   decimal.Decimal
	Notes          string
	Items          []Item
	CreatedAt      time.Time
}

type Item struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Quantity       int64
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
}

// Total is quantity*unitPrice - discount for this line.
func (i Item) Total() decimal.Decimal {
	return ledger.LineTotal(i.Quantity, i.UnitPrice, i.DiscountAmount)
}

// Subtotal sums the line totals.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}

	return sum
}

// SoldQuantity is the quantity of a product on this transaction,
// summed across lines. Zero when the product was not sold.
func (t *Transaction) SoldQuantity(productID uuid.UUID) int64 {
	var qty int64

	for _, item := range t.Items {
		if item.ProductID == productID {
			qty += item.Quantity
		}
	}

	return qty
}

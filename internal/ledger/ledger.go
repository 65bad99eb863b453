// Package ledger holds the pure value arithmetic shared by the sale,
// return and customer workflows: line totals, change computation and
// the signed customer balance with its sign conventions.
package ledger

import (
	"github.com/shopspring/decimal"
)

// LineTotal computes quantity*unitPrice - discount for a single line item.
func LineTotal(quantity int64, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice).Sub(discount)
}

// ChangeDue is the cash to hand back: max(0, paid - total).
func ChangeDue(paid, total decimal.Decimal) decimal.Decimal {
	change := paid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}

	return change
}

// Balance is a customer's signed outstanding balance.
// Positive means the customer owes money, negative means the customer
// holds prepaid credit, zero means settled.
type Balance struct {
	amount decimal.Decimal
}

func NewBalance(amount decimal.Decimal) Balance {
	return Balance{amount: amount}
}

func Zero() Balance {
	return Balance{amount: decimal.Zero}
}

// Amount returns the raw signed value.
func (b Balance) Amount() decimal.Decimal {
	return b.amount
}

// Owed is the amount the customer owes, zero when settled or in credit.
func (b Balance) Owed() decimal.Decimal {
	if b.amount.IsPositive() {
		return b.amount
	}

	return decimal.Zero
}

// AvailableCredit is the prepaid credit the customer holds, zero when
// settled or in debt.
func (b Balance) AvailableCredit() decimal.Decimal {
	if b.amount.IsNegative() {
		return b.amount.Neg()
	}

	return decimal.Zero
}

func (b Balance) IsSettled() bool {
	return b.amount.IsZero()
}

func (b Balance) HasDebt() bool {
	return b.amount.IsPositive()
}

// ApplyCredit consumes up to min(available credit, amountOwed) and
// returns the amount consumed together with the balance after
// consumption. Consuming credit moves the balance toward zero.
func (b Balance) ApplyCredit(amountOwed decimal.Decimal) (decimal.Decimal, Balance) {
	credit := b.AvailableCredit()
	if credit.IsZero() || !amountOwed.IsPositive() {
		return decimal.Zero, b
	}

	used := decimal.Min(credit, amountOwed)

	return used, Balance{amount: b.amount.Add(used)}
}

// Accrue records new debt: the balance grows by amount.
func (b Balance) Accrue(amount decimal.Decimal) Balance {
	return Balance{amount: b.amount.Add(amount)}
}

// Settle reduces the balance by amount. Settling past zero leaves the
// customer holding credit.
func (b Balance) Settle(amount decimal.Decimal) Balance {
	return Balance{amount: b.amount.Sub(amount)}
}

// ClampRepayment caps an explicit debt repayment at the outstanding
// debt, so a repayment can never push the customer into credit.
func (b Balance) ClampRepayment(requested decimal.Decimal) decimal.Decimal {
	return decimal.Min(requested, b.Owed())
}

// Status describes the balance for summaries.
func (b Balance) Status() string {
	switch {
	case b.amount.IsZero():
		return "settled"
	case b.amount.IsNegative():
		return "credit available"
	default:
		return "amount owed"
	}
}

// Equal reports value equality regardless of decimal exponent.
func (b Balance) Equal(other Balance) bool {
	return b.amount.Equal(other.amount)
}

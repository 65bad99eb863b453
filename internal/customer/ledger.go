package customer

import "github.com/shopspring/decimal"

// The credit ledger is the single writer of Customer.OutstandingBalance.
// Every mutation runs inside the unit of work of the operation that
// triggered it (sale, return, deposit, repayment), so a failure
// anywhere in that unit rolls the balance change back with it.

// ApplyAvailableCredit consumes up to min(available credit, amountOwed)
// of the customer's prepaid credit and returns the amount consumed,
// which the caller treats as additional payment.
func ApplyAvailableCredit(c *Customer, amountOwed decimal.Decimal) decimal.Decimal {
	used, after := c.OutstandingBalance.ApplyCredit(amountOwed)
	c.OutstandingBalance = after

	return used
}

// AccrueDebt records the unpaid portion of a sale against the customer.
func AccrueDebt(c *Customer, amount decimal.Decimal) {
	c.OutstandingBalance = c.OutstandingBalance.Accrue(amount)
}

// SettleDebt reduces the balance: debt repayments and refunds issued
// as credit reversal. Settling past zero leaves the customer in credit.
func SettleDebt(c *Customer, amount decimal.Decimal) {
	c.OutstandingBalance = c.OutstandingBalance.Settle(amount)
}

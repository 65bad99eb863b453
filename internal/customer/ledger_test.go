package customer_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"retailcore/internal/customer"
	"retailcore/internal/ledger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyAvailableCredit(t *testing.T) {
	type testCase struct {
		name        string
		balance     string
		amountOwed  string
		wantUsed    string
		wantBalance string
	}

	tests := []testCase{
		{
			name:        "PartialCover",
			balance:     "-50.00",
			amountOwed:  "100.00",
			wantUsed:    "50.00",
			wantBalance: "0",
		},
		{
			name:        "FullCover",
			balance:     "-120.00",
			amountOwed:  "100.00",
			wantUsed:    "100.00",
			wantBalance: "-20.00",
		},
		{
			name:        "NoCreditHeld",
			balance:     "40.00",
			amountOwed:  "100.00",
			wantUsed:    "0",
			wantBalance: "40.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &customer.Customer{OutstandingBalance: ledger.NewBalance(d(tt.balance))}

			used := customer.ApplyAvailableCredit(c, d(tt.amountOwed))

			assert.True(t, used.Equal(d(tt.wantUsed)), "used %s, want %s", used, tt.wantUsed)
			assert.True(t, c.OutstandingBalance.Amount().Equal(d(tt.wantBalance)),
				"balance %s, want %s", c.OutstandingBalance.Amount(), tt.wantBalance)
		})
	}
}

func TestAccrueAndSettleDebt(t *testing.T) {
	c := &customer.Customer{OutstandingBalance: ledger.Zero()}

	customer.AccrueDebt(c, d("80.00"))
	assert.True(t, c.OutstandingBalance.Owed().Equal(d("80.00")))

	customer.SettleDebt(c, d("30.00"))
	assert.True(t, c.OutstandingBalance.Owed().Equal(d("50.00")))

	// Over-settling leaves the customer holding credit.
	customer.SettleDebt(c, d("70.00"))
	assert.True(t, c.OutstandingBalance.AvailableCredit().Equal(d("20.00")))
}

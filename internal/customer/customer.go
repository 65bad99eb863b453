package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/ledger"
)

// PaymentMethod is how money changes hands. Closed set: workflows
// match on it exhaustively rather than treating it as free text.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
	PaymentCredit PaymentMethod = "credit"
)

// Customer carries the signed outstanding balance. Only the ledger
// functions in this package may assign OutstandingBalance.
type Customer struct {
	ID                 uuid.UUID
	Name               string
	Phone              string
	OutstandingBalance ledger.Balance
	LoyaltyPoints      int64
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// Deposit is an append-only prepayment record. Creating one decreases
// the customer's outstanding balance by Amount.
type Deposit struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
	CreatedAt     time.Time
}

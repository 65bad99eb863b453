package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked catalog item. CurrentStock is never written
// directly: the sale, return, receiving and adjustment workflows go
// through the stock functions in this package.
type Product struct {
	ID            uuid.UUID
	Name          string
	SKU           string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	CurrentStock  int64
	MinimumStock  int64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Line pairs a product with a quantity for stock checks and mutations.
type Line struct {
	ProductID uuid.UUID
	Quantity  int64
}

// Direction is the kind of manual stock adjustment.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// Adjustment is the audit record of a manual stock correction.
type Adjustment struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Direction Direction
	Quantity  int64
	Reason    string
	CreatedAt time.Time
}

// PriceRecord is one append-only entry of purchase-price history,
// written when a receiving event changes a product's purchase price.
type PriceRecord struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	PurchasePrice    decimal.Decimal
	PurchaseOrderID  uuid.UUID
	QuantityReceived int64
	EffectiveDate    time.Time
}

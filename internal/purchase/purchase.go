package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the purchase order lifecycle. Pending -> Completed is
// one-way; a completed order can never be received again.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Order struct {
	ID          uuid.UUID
	SupplierID  uuid.UUID
	Status      Status
	TotalAmount decimal.Decimal
	Notes       string
	Items       []Item
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Item struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	Quantity         int64
	UnitPrice        decimal.Decimal
	ReceivedQuantity int64
}

// Item looks up an order line by id.
func (o *Order) Item(id uuid.UUID) *Item {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}

	return nil
}

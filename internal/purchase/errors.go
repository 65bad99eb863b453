package purchase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("purchase order not found")

	// ErrAlreadyCompleted guards the one-way Pending -> Completed
	// transition: re-receiving a completed order is rejected, never
	// silently re-applied.
	ErrAlreadyCompleted = errors.New("purchase order already completed")

	ErrNegativeQuantity = errors.New("received quantity cannot be negative")
)

// ItemNotFoundError reports a received-quantity entry that references
// no line on the order.
type ItemNotFoundError struct {
	ItemID uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("purchase order item %s not found on order", e.ItemID)
}

// OverReceiptError reports receiving more than was ordered on a line.
type OverReceiptError struct {
	ItemID   uuid.UUID
	Received int64
	Ordered  int64
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("received quantity %d exceeds ordered quantity %d for item %s", e.Received, e.Ordered, e.ItemID)
}

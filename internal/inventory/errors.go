package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")

	// ErrNonPositiveQuantity rejects zero or negative quantities on any
	// stock-touching line item.
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")

	// ErrConcurrentStockChange means another writer changed a product's
	// stock between the locked read and the write. The whole unit of
	// work is rolled back; the caller may retry it.
	ErrConcurrentStockChange = errors.New("stock changed concurrently")
)

// InsufficientStockError names the first product that cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Required  int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: required %d, available %d", e.Name, e.Required, e.Available)
}

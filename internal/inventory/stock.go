package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// The stock functions are the only code allowed to change
// Product.CurrentStock. Workflows load the referenced products with
// row locks inside their unit of work, run these against the loaded
// set, then persist the touched rows. No partial mutation: every
// function validates the whole line set before changing anything.

// CheckAvailability fails fast on the first product whose current
// stock cannot cover the requested quantity.
func CheckAvailability(products map[uuid.UUID]*Product, lines []Line) error {
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}

		if line.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrNonPositiveQuantity, line.ProductID)
		}

		if p.CurrentStock < line.Quantity {
			return &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Required:  line.Quantity,
				Available: p.CurrentStock,
			}
		}
	}

	return nil
}

// Decrement reduces stock per line. It re-checks availability so a
// workflow that forgot the check cannot drive stock negative.
func Decrement(products map[uuid.UUID]*Product, lines []Line) error {
	if err := CheckAvailability(products, lines); err != nil {
		return err
	}

	for _, line := range lines {
		products[line.ProductID].CurrentStock -= line.Quantity
	}

	return nil
}

// Increment raises stock per line. There is no upper bound on stock.
func Increment(products map[uuid.UUID]*Product, lines []Line) error {
	for _, line := range lines {
		if _, ok := products[line.ProductID]; !ok {
			return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}

		if line.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrNonPositiveQuantity, line.ProductID)
		}
	}

	for _, line := range lines {
		products[line.ProductID].CurrentStock += line.Quantity
	}

	return nil
}

// Touched returns the products referenced by lines, for persisting
// after a mutation.
func Touched(products map[uuid.UUID]*Product, lines []Line) []*Product {
	seen := make(map[uuid.UUID]struct{}, len(lines))

	var out []*Product

	for _, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			continue
		}

		seen[line.ProductID] = struct{}{}

		if p, ok := products[line.ProductID]; ok {
			out = append(out, p)
		}
	}

	return out
}

package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"retailcore/internal/inventory"
)

const selectProductColumns = `
	id, name, sku, purchase_price, selling_price, current_stock, minimum_stock, created_at, updated_at
`

func scanProduct(s scanner) (*inventory.Product, error) {
	var p inventory.Product

	if err := s.Scan(
		&p.ID, &p.Name, &p.SKU, &p.PurchasePrice, &p.SellingPrice,
		&p.CurrentStock, &p.MinimumStock, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

// SelectProductsForUpdate locks the product rows in ascending id order
// (fixed lock order across all workflows) and returns them keyed by id,
// together with a snapshot of the stock levels as read. The snapshot is
// the expected-value set for the guarded updates below.
func SelectProductsForUpdate(ctx context.Context, q Querier, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, map[uuid.UUID]int64, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE id IN (` + Placeholders(1, len(unique)) + `)
		ORDER BY id
		FOR UPDATE`

	args := make([]any, len(unique))
	for i, id := range unique {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("locking products: %w", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*inventory.Product, len(unique))
	snapshot := make(map[uuid.UUID]int64, len(unique))

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning product: %w", err)
		}

		products[p.ID] = p
		snapshot[p.ID] = p.CurrentStock
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, snapshot, nil
}

// UpdateStockLevels writes the mutated stock back. Each update carries
// the stock level read at lock time as a predicate; a miss means a
// concurrent writer got between the read and the write and the unit of
// work must abort.
func UpdateStockLevels(ctx context.Context, q Querier, products []*inventory.Product, snapshot map[uuid.UUID]int64) error {
	query := `
		UPDATE products
		SET current_stock = $1, updated_at = NOW()
		WHERE id = $2 AND current_stock = $3
	`

	for _, p := range products {
		res, err := q.ExecContext(ctx, query, p.CurrentStock, p.ID, snapshot[p.ID])
		if err != nil {
			return fmt.Errorf("updating stock: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating stock: %w", err)
		}

		if affected == 0 {
			return fmt.Errorf("product %s: %w", p.ID, inventory.ErrConcurrentStockChange)
		}
	}

	return nil
}

// UpdateProducts writes stock and purchase price together, with the
// same expected-stock guard. Used by receiving, where a cost change
// travels with the stock increment.
func UpdateProducts(ctx context.Context, q Querier, products []*inventory.Product, snapshot map[uuid.UUID]int64) error {
	query := `
		UPDATE products
		SET current_stock = $1, purchase_price = $2, updated_at = NOW()
		WHERE id = $3 AND current_stock = $4
	`

	for _, p := range products {
		res, err := q.ExecContext(ctx, query, p.CurrentStock, p.PurchasePrice, p.ID, snapshot[p.ID])
		if err != nil {
			return fmt.Errorf("updating product: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating product: %w", err)
		}

		if affected == 0 {
			return fmt.Errorf("product %s: %w", p.ID, inventory.ErrConcurrentStockChange)
		}
	}

	return nil
}

// SelectLowStock lists products at or below their minimum stock level.
func SelectLowStock(ctx context.Context, q Querier) ([]*inventory.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE current_stock <= minimum_stock
		ORDER BY name ASC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing low stock: %w", err)
	}
	defer rows.Close()

	var products []*inventory.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	return products, rows.Err()
}

// InsertPriceRecords appends purchase-price history rows.
func InsertPriceRecords(ctx context.Context, q Querier, records []*inventory.PriceRecord) error {
	query := `
		INSERT INTO product_price_history (product_id, purchase_price, purchase_order_id, quantity_received, effective_date)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, effective_date
	`

	for _, rec := range records {
		err := q.QueryRowContext(ctx, query,
			rec.ProductID,
			rec.PurchasePrice,
			rec.PurchaseOrderID,
			rec.QuantityReceived,
		).Scan(&rec.ID, &rec.EffectiveDate)
		if err != nil {
			return fmt.Errorf("inserting price record: %w", err)
		}
	}

	return nil
}

// SelectPriceHistory returns the newest price records for a product.
func SelectPriceHistory(ctx context.Context, q Querier, productID uuid.UUID, limit int) ([]*inventory.PriceRecord, error) {
	query := `
		SELECT id, product_id, purchase_price, purchase_order_id, quantity_received, effective_date
		FROM product_price_history
		WHERE product_id = $1
		ORDER BY effective_date DESC, id DESC
		LIMIT $2
	`

	rows, err := q.QueryContext(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing price history: %w", err)
	}
	defer rows.Close()

	var records []*inventory.PriceRecord

	for rows.Next() {
		var rec inventory.PriceRecord

		if err := rows.Scan(
			&rec.ID, &rec.ProductID, &rec.PurchasePrice,
			&rec.PurchaseOrderID, &rec.QuantityReceived, &rec.EffectiveDate,
		); err != nil {
			return nil, fmt.Errorf("scanning price record: %w", err)
		}

		records = append(records, &rec)
	}

	return records, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/inventory"
	"retailcore/internal/purchase"
	"retailcore/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (purchase.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning receiving tx: %w", err)
	}

	return &poTx{tx: tx}, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*purchase.Order, error) {
	return selectOrder(ctx, s.db, id, false)
}

const selectOrderColumns = `
	id, supplier_id, status, total_amount, notes, created_at, updated_at
`

func selectOrder(ctx context.Context, q storage.Querier, id uuid.UUID, forUpdate bool) (*purchase.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM purchase_orders
		WHERE id = $1`

	if forUpdate {
		query += ` FOR UPDATE`
	}

	var o purchase.Order

	err := q.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.SupplierID, &o.Status, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, purchase.ErrNotFound
		}

		return nil, fmt.Errorf("getting purchase order: %w", err)
	}

	itemQuery := `
		SELECT id, product_id, quantity, unit_price, received_quantity
		FROM purchase_order_items
		WHERE purchase_order_id = $1
		ORDER BY id
	`

	rows, err := q.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing purchase order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item purchase.Item

		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.ReceivedQuantity); err != nil {
			return nil, fmt.Errorf("scanning purchase order item: %w", err)
		}

		o.Items = append(o.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase order item rows: %w", err)
	}

	return &o, nil
}

type poTx struct {
	tx       *sql.Tx
	snapshot map[uuid.UUID]int64
}

func (t *poTx) Commit() error   { return t.tx.Commit() }
func (t *poTx) Rollback() error { return t.tx.Rollback() }

func (t *poTx) OrderForUpdate(ctx context.Context, id uuid.UUID) (*purchase.Order, error) {
	return selectOrder(ctx, t.tx, id, true)
}

func (t *poTx) ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error) {
	products, snapshot, err := storage.SelectProductsForUpdate(ctx, t.tx, ids)
	if err != nil {
		return nil, err
	}

	t.snapshot = snapshot

	return products, nil
}

func (t *poTx) SaveProducts(ctx context.Context, products []*inventory.Product) error {
	return storage.UpdateProducts(ctx, t.tx, products, t.snapshot)
}

func (t *poTx) SaveOrder(ctx context.Context, o *purchase.Order) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := t.tx.ExecContext(ctx, query, o.Status, o.ID); err != nil {
		return fmt.Errorf("updating purchase order: %w", err)
	}

	itemQuery := `
		UPDATE purchase_order_items
		SET received_quantity = $1
		WHERE id = $2
	`

	for _, item := range o.Items {
		if _, err := t.tx.ExecContext(ctx, itemQuery, item.ReceivedQuantity, item.ID); err != nil {
			return fmt.Errorf("updating purchase order item: %w", err)
		}
	}

	return nil
}

func (t *poTx) InsertPriceHistory(ctx context.Context, records []*inventory.PriceRecord) error {
	return storage.InsertPriceRecords(ctx, t.tx, records)
}

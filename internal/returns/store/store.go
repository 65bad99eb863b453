package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/customer"
	"retailcore/internal/inventory"
	"retailcore/internal/returns"
	"retailcore/internal/sale"
	"retailcore/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (returns.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning return tx: %w", err)
	}

	return &returnTx{tx: tx}, nil
}

func (s *Store) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*returns.Return, error) {
	query := selectReturnsQuery + ` WHERE r.transaction_id = $1 ORDER BY r.created_at DESC, r.id DESC`

	return s.listReturns(ctx, query, transactionID)
}

func (s *Store) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*returns.Return, error) {
	query := selectReturnsQuery + `
		JOIN sales_transactions t ON t.id = r.transaction_id
		WHERE t.customer_id = $1
		ORDER BY r.created_at DESC, r.id DESC`

	return s.listReturns(ctx, query, customerID)
}

const selectReturnsQuery = `
	SELECT r.id, r.transaction_id, r.refund_method, r.refund_amount, r.reason, r.notes, r.created_at
	FROM product_returns r`

func (s *Store) listReturns(ctx context.Context, query string, arg any) ([]*returns.Return, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing returns: %w", err)
	}
	defer rows.Close()

	var (
		rets []*returns.Return
		ids  []uuid.UUID
	)

	for rows.Next() {
		var r returns.Return

		if err := rows.Scan(
			&r.ID, &r.TransactionID, &r.RefundMethod, &r.RefundAmount, &r.Reason, &r.Notes, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning return: %w", err)
		}

		rets = append(rets, &r)
		ids = append(ids, r.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating return rows: %w", err)
	}

	if err := s.attachItems(ctx, rets, ids); err != nil {
		return nil, err
	}

	return rets, nil
}

func (s *Store) attachItems(ctx context.Context, rets []*returns.Return, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		SELECT id, return_id, product_id, quantity, unit_price
		FROM product_return_items
		WHERE return_id IN (` + storage.Placeholders(1, len(ids)) + `)
		ORDER BY id
	`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing return items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]returns.Item)

	for rows.Next() {
		var (
			item  returns.Item
			retID uuid.UUID
		)

		if err := rows.Scan(&item.ID, &retID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scanning return item: %w", err)
		}

		items[retID] = append(items[retID], item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating return item rows: %w", err)
	}

	for _, r := range rets {
		r.Items = items[r.ID]
	}

	return nil
}

type returnTx struct {
	tx       *sql.Tx
	snapshot map[uuid.UUID]int64
}

func (t *returnTx) Commit() error   { return t.tx.Commit() }
func (t *returnTx) Rollback() error { return t.tx.Rollback() }

func (t *returnTx) GetTransaction(ctx context.Context, id uuid.UUID) (*sale.Transaction, error) {
	return storage.SelectTransaction(ctx, t.tx, id)
}

// ReturnedQuantities sums, per product, everything already returned
// against the transaction.
func (t *returnTx) ReturnedQuantities(ctx context.Context, transactionID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT i.product_id, COALESCE(SUM(i.quantity), 0)
		FROM product_return_items i
		JOIN product_returns r ON r.id = i.return_id
		WHERE r.transaction_id = $1
		GROUP BY i.product_id
	`

	rows, err := t.tx.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("summing returned quantities: %w", err)
	}
	defer rows.Close()

	quantities := make(map[uuid.UUID]int64)

	for rows.Next() {
		var (
			productID uuid.UUID
			qty       int64
		)

		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scanning returned quantity: %w", err)
		}

		quantities[productID] = qty
	}

	return quantities, rows.Err()
}

func (t *returnTx) ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error) {
	products, snapshot, err := storage.SelectProductsForUpdate(ctx, t.tx, ids)
	if err != nil {
		return nil, err
	}

	t.snapshot = snapshot

	return products, nil
}

func (t *returnTx) CustomerForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return storage.SelectCustomer(ctx, t.tx, id, true)
}

func (t *returnTx) SaveStockLevels(ctx context.Context, products []*inventory.Product) error {
	return storage.UpdateStockLevels(ctx, t.tx, products, t.snapshot)
}

func (t *returnTx) SaveCustomerBalance(ctx context.Context, c *customer.Customer) error {
	return storage.UpdateCustomerBalance(ctx, t.tx, c)
}

func (t *returnTx) InsertReturn(ctx context.Context, r *returns.Return) error {
	query := `
		INSERT INTO product_returns (transaction_id, refund_method, refund_amount, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		r.TransactionID,
		r.RefundMethod,
		r.RefundAmount,
		r.Reason,
		r.Notes,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting return: %w", err)
	}

	itemQuery := `
		INSERT INTO product_return_items (return_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range r.Items {
		item := &r.Items[i]

		err := t.tx.QueryRowContext(ctx, itemQuery,
			r.ID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("inserting return item: %w", err)
		}
	}

	return nil
}

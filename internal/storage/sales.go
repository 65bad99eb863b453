package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/sale"
)

const selectTransactionColumns = `
	id, customer_id, payment_method, subtotal, discount_amount, tax_amount,
	total_amount, amount_paid, change_amount, notes, created_at
`

func scanTransaction(s scanner) (*sale.Transaction, error) {
	var (
		t      sale.Transaction
		custID uuid.NullUUID
	)

	if err := s.Scan(
		&t.ID, &custID, &t.PaymentMethod, &t.Subtotal, &t.DiscountAmount, &t.TaxAmount,
		&t.TotalAmount, &t.AmountPaid, &t.ChangeAmount, &t.Notes, &t.CreatedAt,
	); err != nil {
		return nil, err
	}

	if custID.Valid {
		t.CustomerID = &custID.UUID
	}

	return &t, nil
}

func selectTransactionItems(ctx context.Context, q Querier, transactionIDs []uuid.UUID) (map[uuid.UUID][]sale.Item, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, transaction_id, product_id, quantity, unit_price, discount_amount
		FROM sales_transaction_items
		WHERE transaction_id IN (` + Placeholders(1, len(transactionIDs)) + `)
		ORDER BY id
	`

	args := make([]any, len(transactionIDs))
	for i, id := range transactionIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transaction items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]sale.Item)

	for rows.Next() {
		var (
			item sale.Item
			txID uuid.UUID
		)

		if err := rows.Scan(
			&item.ID, &txID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.DiscountAmount,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction item: %w", err)
		}

		items[txID] = append(items[txID], item)
	}

	return items, rows.Err()
}

// SelectTransaction reads one sale with its items.
func SelectTransaction(ctx context.Context, q Querier, id uuid.UUID) (*sale.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM sales_transactions
		WHERE id = $1`

	t, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	items, err := selectTransactionItems(ctx, q, []uuid.UUID{t.ID})
	if err != nil {
		return nil, err
	}

	t.Items = items[t.ID]

	return t, nil
}

// SelectTransactionsByCustomer is the purchase history, newest first.
func SelectTransactionsByCustomer(ctx context.Context, q Querier, customerID uuid.UUID) ([]*sale.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM sales_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var (
		txs []*sale.Transaction
		ids []uuid.UUID
	)

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
		ids = append(ids, t.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	items, err := selectTransactionItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	for _, t := range txs {
		t.Items = items[t.ID]
	}

	return txs, nil
}

// InsertTransaction writes the sale header and its items.
func InsertTransaction(ctx context.Context, q Querier, t *sale.Transaction) error {
	query := `
		INSERT INTO sales_transactions (customer_id, payment_method, subtotal, discount_amount, tax_amount, total_amount, amount_paid, change_amount, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		t.CustomerID,
		t.PaymentMethod,
		t.Subtotal,
		t.DiscountAmount,
		t.TaxAmount,
		t.TotalAmount,
		t.AmountPaid,
		t.ChangeAmount,
		t.Notes,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	itemQuery := `
		INSERT INTO sales_transaction_items (transaction_id, product_id, quantity, unit_price, discount_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for i := range t.Items {
		item := &t.Items[i]

		err := q.QueryRowContext(ctx, itemQuery,
			t.ID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.DiscountAmount,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("inserting transaction item: %w", err)
		}
	}

	return nil
}

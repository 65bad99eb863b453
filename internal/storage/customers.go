package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/ledger"
)

const selectCustomerColumns = `
	id, name, phone, outstanding_balance, loyalty_points, created_at, updated_at
`

func scanCustomer(s scanner) (*customer.Customer, error) {
	var (
		c       customer.Customer
		balance decimal.Decimal
	)

	if err := s.Scan(
		&c.ID, &c.Name, &c.Phone, &balance, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.OutstandingBalance = ledger.NewBalance(balance)

	return &c, nil
}

// SelectCustomer reads one customer. forUpdate locks the row for the
// rest of the unit of work; the customer row is always locked after
// the product rows, never before.
func SelectCustomer(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + `
		FROM customers
		WHERE id = $1`

	if forUpdate {
		query += ` FOR UPDATE`
	}

	c, err := scanCustomer(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return c, nil
}

// UpdateCustomerBalance persists the outstanding balance the credit
// ledger computed. The row is already locked by SelectCustomer.
func UpdateCustomerBalance(ctx context.Context, q Querier, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET outstanding_balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := q.ExecContext(ctx, query, c.OutstandingBalance.Amount(), c.ID); err != nil {
		return fmt.Errorf("updating customer balance: %w", err)
	}

	return nil
}

// InsertDeposit appends the deposit record.
func InsertDeposit(ctx context.Context, q Querier, d *customer.Deposit) error {
	query := `
		INSERT INTO customer_deposits (customer_id, amount, payment_method, notes, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		d.CustomerID,
		d.Amount,
		d.PaymentMethod,
		d.Notes,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting deposit: %w", err)
	}

	return nil
}

// SelectDeposits lists a customer's deposits, newest first.
func SelectDeposits(ctx context.Context, q Querier, customerID uuid.UUID) ([]*customer.Deposit, error) {
	query := `
		SELECT id, customer_id, amount, payment_method, notes, created_at
		FROM customer_deposits
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*customer.Deposit

	for rows.Next() {
		var d customer.Deposit

		if err := rows.Scan(
			&d.ID, &d.CustomerID, &d.Amount, &d.PaymentMethod, &d.Notes, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning deposit: %w", err)
		}

		deposits = append(deposits, &d)
	}

	return deposits, rows.Err()
}

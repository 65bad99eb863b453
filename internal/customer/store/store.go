package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/customer"
	"retailcore/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (customer.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning customer tx: %w", err)
	}

	return &custTx{tx: tx}, nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return storage.SelectCustomer(ctx, s.db, id, false)
}

func (s *Store) Deposits(ctx context.Context, customerID uuid.UUID) ([]*customer.Deposit, error) {
	return storage.SelectDeposits(ctx, s.db, customerID)
}

type custTx struct {
	tx *sql.Tx
}

func (t *custTx) Commit() error   { return t.tx.Commit() }
func (t *custTx) Rollback() error { return t.tx.Rollback() }

func (t *custTx) CustomerForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return storage.SelectCustomer(ctx, t.tx, id, true)
}

func (t *custTx) SaveBalance(ctx context.Context, c *customer.Customer) error {
	return storage.UpdateCustomerBalance(ctx, t.tx, c)
}

func (t *custTx) InsertDeposit(ctx context.Context, d *customer.Deposit) error {
	return storage.InsertDeposit(ctx, t.tx, d)
}

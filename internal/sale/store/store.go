package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/customer"
	"retailcore/internal/inventory"
	"retailcore/internal/sale"
	"retailcore/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (sale.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sale tx: %w", err)
	}

	return &saleTx{tx: tx}, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*sale.Transaction, error) {
	return storage.SelectTransaction(ctx, s.db, id)
}

func (s *Store) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*sale.Transaction, error) {
	return storage.SelectTransactionsByCustomer(ctx, s.db, customerID)
}

type saleTx struct {
	tx       *sql.Tx
	snapshot map[uuid.UUID]int64
}

func (t *saleTx) Commit() error   { return t.tx.Commit() }
func (t *saleTx) Rollback() error { return t.tx.Rollback() }

func (t *saleTx) ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error) {
	products, snapshot, err := storage.SelectProductsForUpdate(ctx, t.tx, ids)
	if err != nil {
		return nil, err
	}

	t.snapshot = snapshot

	return products, nil
}

func (t *saleTx) CustomerForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return storage.SelectCustomer(ctx, t.tx, id, true)
}

func (t *saleTx) SaveStockLevels(ctx context.Context, products []*inventory.Product) error {
	return storage.UpdateStockLevels(ctx, t.tx, products, t.snapshot)
}

func (t *saleTx) SaveCustomerBalance(ctx context.Context, c *customer.Customer) error {
	return storage.UpdateCustomerBalance(ctx, t.tx, c)
}

func (t *saleTx) InsertTransaction(ctx context.Context, tr *sale.Transaction) error {
	return storage.InsertTransaction(ctx, t.tx, tr)
}

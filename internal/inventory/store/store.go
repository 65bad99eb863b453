package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/inventory"
	"retailcore/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning inventory tx: %w", err)
	}

	return &invTx{tx: tx}, nil
}

func (s *Store) LowStock(ctx context.Context) ([]*inventory.Product, error) {
	return storage.SelectLowStock(ctx, s.db)
}

func (s *Store) PriceHistory(ctx context.Context, productID uuid.UUID, limit int) ([]*inventory.PriceRecord, error) {
	return storage.SelectPriceHistory(ctx, s.db, productID, limit)
}

type invTx struct {
	tx       *sql.Tx
	snapshot map[uuid.UUID]int64
}

func (t *invTx) Commit() error   { return t.tx.Commit() }
func (t *invTx) Rollback() error { return t.tx.Rollback() }

func (t *invTx) ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error) {
	products, snapshot, err := storage.SelectProductsForUpdate(ctx, t.tx, ids)
	if err != nil {
		return nil, err
	}

	t.snapshot = snapshot

	return products, nil
}

func (t *invTx) SaveStockLevels(ctx context.Context, products []*inventory.Product) error {
	return storage.UpdateStockLevels(ctx, t.tx, products, t.snapshot)
}

func (t *invTx) InsertAdjustment(ctx context.Context, adj *inventory.Adjustment) error {
	query := `
		INSERT INTO inventory_adjustments (product_id, direction, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		adj.ProductID,
		adj.Direction,
		adj.Quantity,
		adj.Reason,
	).Scan(&adj.ID, &adj.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting adjustment: %w", err)
	}

	return nil
}

package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	LowStock(ctx context.Context) ([]*Product, error)
	PriceHistory(ctx context.Context, productID uuid.UUID, limit int) ([]*PriceRecord, error)
}

// Tx is one atomic unit of work against the store. ProductsForUpdate
// locks the rows (ascending id order) for the duration of the unit.
type Tx interface {
	ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Product, error)
	SaveStockLevels(ctx context.Context, products []*Product) error
	InsertAdjustment(ctx context.Context, adj *Adjustment) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AdjustParams struct {
	ProductID uuid.UUID
	Direction Direction
	Quantity  int64
	Reason    string
}

// Adjust applies a manual stock correction outside the sale/return/
// receiving accounting and records it as an Adjustment row. A decrease
// that would drive stock negative fails with InsufficientStockError.
func (s *Service) Adjust(ctx context.Context, params AdjustParams) (*Product, error) {
	if params.Quantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	if params.Direction != DirectionIncrease && params.Direction != DirectionDecrease {
		return nil, fmt.Errorf("unknown adjustment direction %q", params.Direction)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin adjustment: %w", err)
	}
	defer tx.Rollback()

	products, err := tx.ProductsForUpdate(ctx, []uuid.UUID{params.ProductID})
	if err != nil {
		return nil, fmt.Errorf("locking product: %w", err)
	}

	p, ok := products[params.ProductID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, params.ProductID)
	}

	lines := []Line{{ProductID: params.ProductID, Quantity: params.Quantity}}

	switch params.Direction {
	case DirectionIncrease:
		err = Increment(products, lines)
	case DirectionDecrease:
		err = Decrement(products, lines)
	}

	if err != nil {
		return nil, err
	}

	if err := tx.SaveStockLevels(ctx, []*Product{p}); err != nil {
		return nil, fmt.Errorf("saving stock: %w", err)
	}

	adj := &Adjustment{
		ProductID: params.ProductID,
		Direction: params.Direction,
		Quantity:  params.Quantity,
		Reason:    params.Reason,
	}
	if err := tx.InsertAdjustment(ctx, adj); err != nil {
		return nil, fmt.Errorf("recording adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjustment: %w", err)
	}

	return p, nil
}

// LowStock lists products at or below their minimum stock level.
func (s *Service) LowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.LowStock(ctx)
}

// PriceHistory returns the newest purchase-price records for a
// product, most recent first.
func (s *Service) PriceHistory(ctx context.Context, productID uuid.UUID, limit int) ([]*PriceRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	return s.repo.PriceHistory(ctx, productID, limit)
}

package purchase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"retailcore/internal/inventory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=purchase
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
}

// Tx is the receiving unit of work. SaveProducts persists both stock
// and purchase-price changes for the locked product rows.
type Tx interface {
	OrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error)
	SaveProducts(ctx context.Context, products []*inventory.Product) error
	SaveOrder(ctx context.Context, o *Order) error
	InsertPriceHistory(ctx context.Context, records []*inventory.PriceRecord) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Complete applies received quantities to a pending order: stock goes
// up per received line, the product's purchase price follows the line's
// unit cost when it changed (writing one price-history row), and the
// order flips to Completed. The whole receipt commits or none of it
// does; receiving the same order twice fails ErrAlreadyCompleted.
func (s *Service) Complete(ctx context.Context, orderID uuid.UUID, received map[uuid.UUID]int64) (*Order, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin receiving: %w", err)
	}
	defer tx.Rollback()

	order, err := tx.OrderForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != StatusPending {
		return nil, ErrAlreadyCompleted
	}

	for itemID, qty := range received {
		item := order.Item(itemID)
		if item == nil {
			return nil, &ItemNotFoundError{ItemID: itemID}
		}

		if qty < 0 {
			return nil, fmt.Errorf("%w: item %s", ErrNegativeQuantity, itemID)
		}

		if qty > item.Quantity {
			return nil, &OverReceiptError{ItemID: itemID, Received: qty, Ordered: item.Quantity}
		}

		item.ReceivedQuantity = qty
	}

	var lines []inventory.Line

	for _, item := range order.Items {
		if item.ReceivedQuantity > 0 {
			lines = append(lines, inventory.Line{ProductID: item.ProductID, Quantity: item.ReceivedQuantity})
		}
	}

	var history []*inventory.PriceRecord

	if len(lines) > 0 {
		products, err := tx.ProductsForUpdate(ctx, lineProductIDs(lines))
		if err != nil {
			return nil, fmt.Errorf("locking products: %w", err)
		}

		if err := inventory.Increment(products, lines); err != nil {
			return nil, err
		}

		for _, item := range order.Items {
			if item.ReceivedQuantity == 0 {
				continue
			}

			p, ok := products[item.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, item.ProductID)
			}

			// Repeat receipts at an unchanged cost write no history row.
			if !item.UnitPrice.Equal(p.PurchasePrice) {
				p.PurchasePrice = item.UnitPrice
				history = append(history, &inventory.PriceRecord{
					ProductID:        p.ID,
					PurchasePrice:    item.UnitPrice,
					PurchaseOrderID:  order.ID,
					QuantityReceived: item.ReceivedQuantity,
				})
			}
		}

		if err := tx.SaveProducts(ctx, inventory.Touched(products, lines)); err != nil {
			return nil, fmt.Errorf("saving products: %w", err)
		}

		if len(history) > 0 {
			if err := tx.InsertPriceHistory(ctx, history); err != nil {
				return nil, fmt.Errorf("recording price history: %w", err)
			}
		}
	}

	order.Status = StatusCompleted

	if err := tx.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit receiving: %w", err)
	}

	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func lineProductIDs(lines []inventory.Line) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	return ids
}

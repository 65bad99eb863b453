package returns

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/inventory"
	"retailcore/internal/sale"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=returns
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*Return, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Return, error)
}

// Tx is the return unit of work: the originating sale, the cumulative
// quantities already returned against it, row-locked products and
// customer, and the insert of the new return.
type Tx interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*sale.Transaction, error)
	ReturnedQuantities(ctx context.Context, transactionID uuid.UUID) (map[uuid.UUID]int64, error)
	ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error)
	CustomerForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
	SaveStockLevels(ctx context.Context, products []*inventory.Product) error
	SaveCustomerBalance(ctx context.Context, c *customer.Customer) error
	InsertReturn(ctx context.Context, r *Return) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ItemParams struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

type CreateParams struct {
	TransactionID uuid.UUID
	RefundMethod  RefundMethod
	Items         []ItemParams
	Reason        string
	Notes         string
}

// Create validates returnable quantities against sold-minus-previously-
// returned, restores stock, computes the refund and adjusts the
// customer ledger for credit refunds, all in one atomic unit of work.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Return, error) {
	if len(params.Items) == 0 {
		return nil, ErrEmptyReturn
	}

	switch params.RefundMethod {
	case RefundCash, RefundCredit:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRefundMethod, params.RefundMethod)
	}

	items := make([]Item, len(params.Items))
	lines := make([]inventory.Line, len(params.Items))
	requested := make(map[uuid.UUID]int64)

	for i, p := range params.Items {
		if p.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", inventory.ErrNonPositiveQuantity, p.ProductID)
		}

		items[i] = Item{ProductID: p.ProductID, Quantity: p.Quantity, UnitPrice: p.UnitPrice}
		lines[i] = inventory.Line{ProductID: p.ProductID, Quantity: p.Quantity}
		requested[p.ProductID] += p.Quantity
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin return: %w", err)
	}
	defer tx.Rollback()

	t, err := tx.GetTransaction(ctx, params.TransactionID)
	if err != nil {
		return nil, err
	}

	if params.RefundMethod == RefundCredit && t.CustomerID == nil {
		return nil, ErrCreditRefundRequiresCustomer
	}

	// Lock the product rows before reading the already-returned sums:
	// concurrent returns against the same sale serialize on these locks,
	// so the second one sees the first's committed return rows and the
	// sold-minus-returned check holds under concurrency.
	products, err := tx.ProductsForUpdate(ctx, productIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}

	alreadyReturned, err := tx.ReturnedQuantities(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("loading returned quantities: %w", err)
	}

	for _, item := range items {
		sold := t.SoldQuantity(item.ProductID)
		if sold == 0 {
			return nil, fmt.Errorf("%w: %s", ErrProductNotSold, item.ProductID)
		}

		available := sold - alreadyReturned[item.ProductID]
		if requested[item.ProductID] > available {
			return nil, &ReturnExceedsAvailableError{
				ProductID: item.ProductID,
				Requested: requested[item.ProductID],
				Available: available,
			}
		}
	}

	refund := RefundTotal(items)

	if err := inventory.Increment(products, lines); err != nil {
		return nil, err
	}

	if err := tx.SaveStockLevels(ctx, inventory.Touched(products, lines)); err != nil {
		return nil, fmt.Errorf("saving stock: %w", err)
	}

	if t.CustomerID != nil && params.RefundMethod == RefundCredit {
		cust, err := tx.CustomerForUpdate(ctx, *t.CustomerID)
		if err != nil {
			return nil, err
		}

		customer.SettleDebt(cust, refund)

		if err := tx.SaveCustomerBalance(ctx, cust); err != nil {
			return nil, fmt.Errorf("saving balance: %w", err)
		}
	}

	r := &Return{
		TransactionID: t.ID,
		RefundMethod:  params.RefundMethod,
		RefundAmount:  refund,
		Reason:        params.Reason,
		Notes:         params.Notes,
		Items:         items,
	}
	if err := tx.InsertReturn(ctx, r); err != nil {
		return nil, fmt.Errorf("inserting return: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit return: %w", err)
	}

	return r, nil
}

// ListByTransaction lists returns recorded against one sale.
func (s *Service) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*Return, error) {
	return s.repo.ListByTransaction(ctx, transactionID)
}

// ListByCustomer is the customer's return history, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Return, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func productIDs(lines []inventory.Line) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	return ids
}

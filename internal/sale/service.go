package sale

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/inventory"
	"retailcore/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error)
}

// Tx is the sale unit of work. ProductsForUpdate and CustomerForUpdate
// take row locks that hold until Commit or Rollback; product rows are
// locked in ascending id order, then the customer row, so concurrent
// workflows touching overlapping sets cannot deadlock.
type Tx interface {
	ProductsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error)
	CustomerForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
	SaveStockLevels(ctx context.Context, products []*inventory.Product) error
	SaveCustomerBalance(ctx context.Context, c *customer.Customer) error
	InsertTransaction(ctx context.Context, t *Transaction) error
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
	ProductID      uuid.UUID
	Quantity       int64
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
}

type CreateParams struct {
	CustomerID     *uuid.UUID
	PaymentMethod  customer.PaymentMethod
	Items          []ItemParams
	AmountPaid     decimal.Decimal
	DiscountAmount decimal.Decimal
	// TaxAmount is stored as supplied; no tax rule is computed here.
	TaxAmount decimal.Decimal
	Notes     string
}

// Create validates and completes a sale in one atomic unit of work:
// availability check, credit application, debt accrual, stock
// decrement and persistence. Any failure rolls back every stock and
// balance change made so far.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if len(params.Items) == 0 {
		return nil, ErrEmptyTransaction
	}

	switch params.PaymentMethod {
	case customer.PaymentCash, customer.PaymentOnline:
	case customer.PaymentCredit:
		if params.CustomerID == nil {
			return nil, ErrCreditRequiresCustomer
		}
	default:
		return nil, fmt.Errorf("%w: %q", customer.ErrUnknownPaymentMethod, params.PaymentMethod)
	}

	items := make([]Item, len(params.Items))
	lines := make([]inventory.Line, len(params.Items))

	for i, p := range params.Items {
		if p.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", inventory.ErrNonPositiveQuantity, p.ProductID)
		}

		items[i] = Item{
			ProductID:      p.ProductID,
			Quantity:       p.Quantity,
			UnitPrice:      p.UnitPrice,
			DiscountAmount: p.DiscountAmount,
		}
		lines[i] = inventory.Line{ProductID: p.ProductID, Quantity: p.Quantity}
	}

	subtotal := Subtotal(items)
	total := subtotal.Sub(params.DiscountAmount).Add(params.TaxAmount)
	amountPaid := params.AmountPaid

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin sale: %w", err)
	}
	defer tx.Rollback()

	products, err := tx.ProductsForUpdate(ctx, productIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}

	if err := inventory.CheckAvailability(products, lines); err != nil {
		return nil, err
	}

	var cust *customer.Customer

	if params.CustomerID != nil {
		cust, err = tx.CustomerForUpdate(ctx, *params.CustomerID)
		if err != nil {
			return nil, err
		}

		used := customer.ApplyAvailableCredit(cust, total.Sub(amountPaid))
		amountPaid = amountPaid.Add(used)

		// An overpayment never lands on the balance, not even on a
		// credit sale: the excess is handed back as change below.
		if owed := total.Sub(amountPaid); owed.IsPositive() {
			customer.AccrueDebt(cust, owed)
		}
	}

	if params.PaymentMethod == customer.PaymentCash && !amountPaid.IsPositive() {
		return nil, ErrMissingPayment
	}

	if err := inventory.Decrement(products, lines); err != nil {
		return nil, err
	}

	if err := tx.SaveStockLevels(ctx, inventory.Touched(products, lines)); err != nil {
		return nil, fmt.Errorf("saving stock: %w", err)
	}

	if cust != nil {
		if err := tx.SaveCustomerBalance(ctx, cust); err != nil {
			return nil, fmt.Errorf("saving balance: %w", err)
		}
	}

	t := &Transaction{
		CustomerID:     params.CustomerID,
		PaymentMethod:  params.PaymentMethod,
		Subtotal:       subtotal,
		DiscountAmount: params.DiscountAmount,
		TaxAmount:      params.TaxAmount,
		TotalAmount:    total,
		AmountPaid:     amountPaid,
		ChangeAmount:   ledger.ChangeDue(amountPaid, total),
		Notes:          params.Notes,
		Items:          items,
	}
	if err := tx.InsertTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	return t, nil
}

// Update always fails: completed sales are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID) error {
	return ErrImmutableRecord
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ListByCustomer is the customer's purchase history, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func productIDs(lines []inventory.Line) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	return ids
}

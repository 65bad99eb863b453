package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	Deposits(ctx context.Context, customerID uuid.UUID) ([]*Deposit, error)
}

type Tx interface {
	CustomerForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)
	SaveBalance(ctx context.Context, c *Customer) error
	InsertDeposit(ctx context.Context, d *Deposit) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type DepositParams struct {
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
}

// RecordDeposit creates the deposit row and decreases the customer's
// outstanding balance by the deposited amount in one atomic unit. A
// deposit always either pays down debt or builds credit.
func (s *Service) RecordDeposit(ctx context.Context, params DepositParams) (*Deposit, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	switch params.PaymentMethod {
	case PaymentCash, PaymentOnline, PaymentCredit:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, params.PaymentMethod)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin deposit: %w", err)
	}
	defer tx.Rollback()

	c, err := tx.CustomerForUpdate(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}

	SettleDebt(c, params.Amount)

	if err := tx.SaveBalance(ctx, c); err != nil {
		return nil, fmt.Errorf("saving balance: %w", err)
	}

	d := &Deposit{
		CustomerID:    params.CustomerID,
		Amount:        params.Amount,
		PaymentMethod: params.PaymentMethod,
		Notes:         params.Notes,
	}
	if err := tx.InsertDeposit(ctx, d); err != nil {
		return nil, fmt.Errorf("inserting deposit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit deposit: %w", err)
	}

	return d, nil
}

type Repayment struct {
	AmountPaid decimal.Decimal
	Remaining  ledger.Balance
}

// RepayDebt pays down the customer's outstanding debt. The amount is
// clamped to what is actually owed; a customer with no debt cannot
// repay.
func (s *Service) RepayDebt(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*Repayment, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin repayment: %w", err)
	}
	defer tx.Rollback()

	c, err := tx.CustomerForUpdate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !c.OutstandingBalance.HasDebt() {
		return nil, ErrNoOutstandingDebt
	}

	paid := c.OutstandingBalance.ClampRepayment(amount)
	SettleDebt(c, paid)

	if err := tx.SaveBalance(ctx, c); err != nil {
		return nil, fmt.Errorf("saving balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit repayment: %w", err)
	}

	return &Repayment{AmountPaid: paid, Remaining: c.OutstandingBalance}, nil
}

type BalanceSummary struct {
	CustomerID         uuid.UUID
	OutstandingBalance ledger.Balance
	Status             string
}

func (s *Service) BalanceSummary(ctx context.Context, customerID uuid.UUID) (*BalanceSummary, error) {
	c, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &BalanceSummary{
		CustomerID:         c.ID,
		OutstandingBalance: c.OutstandingBalance,
		Status:             c.OutstandingBalance.Status(),
	}, nil
}

func (s *Service) Deposits(ctx context.Context, customerID uuid.UUID) ([]*Deposit, error) {
	return s.repo.Deposits(ctx, customerID)
}

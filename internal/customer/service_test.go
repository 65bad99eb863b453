package customer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"retailcore/internal/customer"
	"retailcore/internal/ledger"
)

func TestService_RecordDeposit(t *testing.T) {
	customerID := uuid.New()

	type testCase struct {
		name      string
		params    customer.DepositParams
		setupMock func(repo *customer.MockRepository, tx *customer.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "PaysDownDebt",
			params: customer.DepositParams{
				CustomerID:    customerID,
				Amount:        decimal.RequireFromString("60.00"),
				PaymentMethod: customer.PaymentCash,
			},
			setupMock: func(repo *customer.MockRepository, tx *customer.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					CustomerForUpdate(gomock.Any(), customerID).
					Return(&customer.Customer{
						ID:                 customerID,
						OutstandingBalance: ledger.NewBalance(decimal.RequireFromString("100.00")),
					}, nil)
				tx.EXPECT().
					SaveBalance(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *customer.Customer) error {
						assert.True(t, c.OutstandingBalance.Amount().Equal(decimal.RequireFromString("40.00")))
						return nil
					})
				tx.EXPECT().
					InsertDeposit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, dep *customer.Deposit) error {
						dep.ID = uuid.New()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "BuildsCredit",
			params: customer.DepositParams{
				CustomerID:    customerID,
				Amount:        decimal.RequireFromString("150.00"),
				PaymentMethod: customer.PaymentOnline,
			},
			setupMock: func(repo *customer.MockRepository, tx *customer.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					CustomerForUpdate(gomock.Any(), customerID).
					Return(&customer.Customer{
						ID:                 customerID,
						OutstandingBalance: ledger.NewBalance(decimal.RequireFromString("100.00")),
					}, nil)
				tx.EXPECT().
					SaveBalance(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *customer.Customer) error {
						assert.True(t, c.OutstandingBalance.AvailableCredit().Equal(decimal.RequireFromString("50.00")))
						return nil
					})
				tx.EXPECT().InsertDeposit(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "ZeroAmount",
			params: customer.DepositParams{
				CustomerID:    customerID,
				Amount:        decimal.Zero,
				PaymentMethod: customer.PaymentCash,
			},
			wantErr: customer.ErrNonPositiveAmount,
		},
		{
			name: "UnknownMethod",
			params: customer.DepositParams{
				CustomerID:    customerID,
				Amount:        decimal.RequireFromString("10.00"),
				PaymentMethod: customer.PaymentMethod("barter"),
			},
			wantErr: customer.ErrUnknownPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := customer.NewMockRepository(ctrl)
			tx := customer.NewMockTx(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := customer.NewService(repo)
			got, err := svc.RecordDeposit(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(tt.params.Amount))
		})
	}
}

func TestService_RepayDebt(t *testing.T) {
	customerID := uuid.New()

	t.Run("ClampsToOutstanding", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := customer.NewMockRepository(ctrl)
		tx := customer.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().
			CustomerForUpdate(gomock.Any(), customerID).
			Return(&customer.Customer{
				ID:                 customerID,
				OutstandingBalance: ledger.NewBalance(decimal.RequireFromString("70.00")),
			}, nil)
		tx.EXPECT().SaveBalance(gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := customer.NewService(repo)

		got, err := svc.RepayDebt(context.Background(), customerID, decimal.RequireFromString("100.00"))

		require.NoError(t, err)
		assert.True(t, got.AmountPaid.Equal(decimal.RequireFromString("70.00")))
		assert.True(t, got.Remaining.IsSettled())
	})

	t.Run("NoDebt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := customer.NewMockRepository(ctrl)
		tx := customer.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().
			CustomerForUpdate(gomock.Any(), customerID).
			Return(&customer.Customer{
				ID:                 customerID,
				OutstandingBalance: ledger.NewBalance(decimal.RequireFromString("-30.00")),
			}, nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := customer.NewService(repo)

		_, err := svc.RepayDebt(context.Background(), customerID, decimal.RequireFromString("10.00"))
		assert.ErrorIs(t, err, customer.ErrNoOutstandingDebt)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := customer.NewService(customer.NewMockRepository(ctrl))

		_, err := svc.RepayDebt(context.Background(), customerID, decimal.Zero)
		assert.ErrorIs(t, err, customer.ErrNonPositiveAmount)
	})
}

func TestService_BalanceSummary(t *testing.T) {
	customerID := uuid.New()

	type testCase struct {
		name       string
		balance    string
		wantStatus string
	}

	tests := []testCase{
		{name: "Settled", balance: "0", wantStatus: "settled"},
		{name: "CreditAvailable", balance: "-25.00", wantStatus: "credit available"},
		{name: "AmountOwed", balance: "90.00", wantStatus: "amount owed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := customer.NewMockRepository(ctrl)
			repo.EXPECT().
				GetCustomer(gomock.Any(), customerID).
				Return(&customer.Customer{
					ID:                 customerID,
					OutstandingBalance: ledger.NewBalance(d(tt.balance)),
				}, nil)

			svc := customer.NewService(repo)

			got, err := svc.BalanceSummary(context.Background(), customerID)

			require.NoError(t, err)
			assert.Equal(t, customerID, got.CustomerID)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

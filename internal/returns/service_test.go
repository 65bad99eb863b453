package returns_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"retailcore/internal/customer"
	"retailcore/internal/inventory"
	"retailcore/internal/ledger"
	"retailcore/internal/returns"
	"retailcore/internal/sale"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func soldTransaction(productID uuid.UUID, customerID *uuid.UUID) *sale.Transaction {
	return &sale.Transaction{
		ID:         uuid.New(),
		CustomerID: customerID,
		Items: []sale.Item{
			{ProductID: productID, Quantity: 2, UnitPrice: d("100.00")},
		},
	}
}

func TestService_Create_CashRefundRestoresStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	tr := soldTransaction(productID, nil)

	repo := returns.NewMockRepository(ctrl)
	tx := returns.NewMockTx(ctrl)

	products := map[uuid.UUID]*inventory.Product{
		productID: {ID: productID, Name: "Widget", CurrentStock: 8},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetTransaction(gomock.Any(), tr.ID).Return(tr, nil)
	tx.EXPECT().ReturnedQuantities(gomock.Any(), tr.ID).Return(map[uuid.UUID]int64{}, nil)
	tx.EXPECT().ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).Return(products, nil)
	tx.EXPECT().
		SaveStockLevels(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, touched []*inventory.Product) error {
			require.Len(t, touched, 1)
			assert.Equal(t, int64(10), touched[0].CurrentStock)
			return nil
		})
	tx.EXPECT().
		InsertReturn(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *returns.Return) error {
			r.ID = uuid.New()
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := returns.NewService(repo)

	got, err := svc.Create(context.Background(), returns.CreateParams{
		TransactionID: tr.ID,
		RefundMethod:  returns.RefundCash,
		Items: []returns.ItemParams{
			{ProductID: productID, Quantity: 2, UnitPrice: d("100.00")},
		},
		Reason: "defective",
	})

	require.NoError(t, err)
	assert.True(t, got.RefundAmount.Equal(d("200.00")), "refund %s", got.RefundAmount)
	assert.NotEmpty(t, got.ID)
}

// A credit refund settles the customer's ledger instead of handing
// back cash.
func TestService_Create_CreditRefundSettlesLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	customerID := uuid.New()
	tr := soldTransaction(productID, &customerID)

	repo := returns.NewMockRepository(ctrl)
	tx := returns.NewMockTx(ctrl)

	products := map[uuid.UUID]*inventory.Product{
		productID: {ID: productID, Name: "Widget", CurrentStock: 0},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetTransaction(gomock.Any(), tr.ID).Return(tr, nil)
	tx.EXPECT().ReturnedQuantities(gomock.Any(), tr.ID).Return(map[uuid.UUID]int64{}, nil)
	tx.EXPECT().ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).Return(products, nil)
	tx.EXPECT().SaveStockLevels(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().
		CustomerForUpdate(gomock.Any(), customerID).
		Return(&customer.Customer{
			ID:                 customerID,
			OutstandingBalance: ledger.NewBalance(d("60.00")),
		}, nil)
	tx.EXPECT().
		SaveCustomerBalance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *customer.Customer) error {
			// 100 refund against 60 debt leaves 40 in credit.
			assert.True(t, c.OutstandingBalance.AvailableCredit().Equal(d("40.00")),
				"balance %s", c.OutstandingBalance.Amount())
			return nil
		})
	tx.EXPECT().InsertReturn(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := returns.NewService(repo)

	got, err := svc.Create(context.Background(), returns.CreateParams{
		TransactionID: tr.ID,
		RefundMethod:  returns.RefundCredit,
		Items: []returns.ItemParams{
			{ProductID: productID, Quantity: 1, UnitPrice: d("100.00")},
		},
	})

	require.NoError(t, err)
	assert.True(t, got.RefundAmount.Equal(d("100.00")))
}

// Returning everything once exhausts the returnable quantity; a second
// return of the same item must fail.
func TestService_Create_ReturnExceedsAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	tr := soldTransaction(productID, nil)

	repo := returns.NewMockRepository(ctrl)
	tx := returns.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetTransaction(gomock.Any(), tr.ID).Return(tr, nil)
	tx.EXPECT().
		ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).
		Return(map[uuid.UUID]*inventory.Product{
			productID: {ID: productID, Name: "Widget", CurrentStock: 8},
		}, nil)
	tx.EXPECT().
		ReturnedQuantities(gomock.Any(), tr.ID).
		Return(map[uuid.UUID]int64{productID: 2}, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := returns.NewService(repo)

	_, err := svc.Create(context.Background(), returns.CreateParams{
		TransactionID: tr.ID,
		RefundMethod:  returns.RefundCash,
		Items: []returns.ItemParams{
			{ProductID: productID, Quantity: 1, UnitPrice: d("100.00")},
		},
	})

	var exceedsErr *returns.ReturnExceedsAvailableError
	require.ErrorAs(t, err, &exceedsErr)
	assert.Equal(t, int64(1), exceedsErr.Requested)
	assert.Equal(t, int64(0), exceedsErr.Available)
}

// Two returns against the same sale serialize on the product row locks,
// and the loser must see the winner's committed return rows. The
// already-returned sums are therefore only valid once the locks are
// held: here a competing return of the full sold quantity lands while
// we wait for the lock, and the post-lock read has to reject ours.
func TestService_Create_RereadsReturnedQuantitiesUnderLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	tr := soldTransaction(productID, nil)

	repo := returns.NewMockRepository(ctrl)
	tx := returns.NewMockTx(ctrl)

	returned := map[uuid.UUID]int64{}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)

	gomock.InOrder(
		tx.EXPECT().GetTransaction(gomock.Any(), tr.ID).Return(tr, nil),
		tx.EXPECT().
			ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).
			DoAndReturn(func(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]*inventory.Product, error) {
				// The competing return commits before our lock is granted.
				returned[productID] = 2
				return map[uuid.UUID]*inventory.Product{
					productID: {ID: productID, Name: "Widget", CurrentStock: 10},
				}, nil
			}),
		tx.EXPECT().
			ReturnedQuantities(gomock.Any(), tr.ID).
			DoAndReturn(func(_ context.Context, _ uuid.UUID) (map[uuid.UUID]int64, error) {
				return returned, nil
			}),
	)
	tx.EXPECT().Rollback().Return(nil)

	svc := returns.NewService(repo)

	_, err := svc.Create(context.Background(), returns.CreateParams{
		TransactionID: tr.ID,
		RefundMethod:  returns.RefundCash,
		Items: []returns.ItemParams{
			{ProductID: productID, Quantity: 1, UnitPrice: d("100.00")},
		},
	})

	var exceedsErr *returns.ReturnExceedsAvailableError
	require.ErrorAs(t, err, &exceedsErr)
	assert.Equal(t, int64(0), exceedsErr.Available)
}

func TestService_Create_ProductNotSold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := soldTransaction(uuid.New(), nil)
	unsoldID := uuid.New()

	repo := returns.NewMockRepository(ctrl)
	tx := returns.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetTransaction(gomock.Any(), tr.ID).Return(tr, nil)
	tx.EXPECT().
		ProductsForUpdate(gomock.Any(), []uuid.UUID{unsoldID}).
		Return(map[uuid.UUID]*inventory.Product{
			unsoldID: {ID: unsoldID, Name: "Gadget", CurrentStock: 3},
		}, nil)
	tx.EXPECT().ReturnedQuantities(gomock.Any(), tr.ID).Return(map[uuid.UUID]int64{}, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := returns.NewService(repo)

	_, err := svc.Create(context.Background(), returns.CreateParams{
		TransactionID: tr.ID,
		RefundMethod:  returns.RefundCash,
		Items: []returns.ItemParams{
			{ProductID: unsoldID, Quantity: 1, UnitPrice: d("10.00")},
		},
	})
	assert.ErrorIs(t, err, returns.ErrProductNotSold)
}

func TestService_Create_Validation(t *testing.T) {
	productID := uuid.New()
	tr := soldTransaction(productID, nil)

	type testCase struct {
		name      string
		params    returns.CreateParams
		setupMock func(repo *returns.MockRepository, tx *returns.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "EmptyReturn",
			params: returns.CreateParams{
				TransactionID: tr.ID,
				RefundMethod:  returns.RefundCash,
			},
			wantErr: returns.ErrEmptyReturn,
		},
		{
			name: "UnknownRefundMethod",
			params: returns.CreateParams{
				TransactionID: tr.ID,
				RefundMethod:  returns.RefundMethod("wire"),
				Items: []returns.ItemParams{
					{ProductID: productID, Quantity: 1, UnitPrice: d("10.00")},
				},
			},
			wantErr: returns.ErrUnknownRefundMethod,
		},
		{
			name: "ZeroQuantity",
			params: returns.CreateParams{
				TransactionID: tr.ID,
				RefundMethod:  returns.RefundCash,
				Items: []returns.ItemParams{
					{ProductID: productID, Quantity: 0, UnitPrice: d("10.00")},
				},
			},
			wantErr: inventory.ErrNonPositiveQuantity,
		},
		{
			name: "CreditRefundWithoutCustomer",
			params: returns.CreateParams{
				TransactionID: tr.ID,
				RefundMethod:  returns.RefundCredit,
				Items: []returns.ItemParams{
					{ProductID: productID, Quantity: 1, UnitPrice: d("10.00")},
				},
			},
			setupMock: func(repo *returns.MockRepository, tx *returns.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetTransaction(gomock.Any(), tr.ID).Return(tr, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: returns.ErrCreditRefundRequiresCustomer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := returns.NewMockRepository(ctrl)
			tx := returns.NewMockTx(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := returns.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestService_ListByTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transactionID := uuid.New()

	repo := returns.NewMockRepository(ctrl)
	repo.EXPECT().
		ListByTransaction(gomock.Any(), transactionID).
		Return([]*returns.Return{{ID: uuid.New()}}, nil)

	svc := returns.NewService(repo)

	got, err := svc.ListByTransaction(context.Background(), transactionID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

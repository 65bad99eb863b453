package purchase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"retailcore/internal/inventory"
	"retailcore/internal/purchase"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pendingOrder(productID uuid.UUID, quantity int64, unitPrice string) *purchase.Order {
	return &purchase.Order{
		ID:     uuid.New(),
		Status: purchase.StatusPending,
		Items: []purchase.Item{
			{ID: uuid.New(), ProductID: productID, Quantity: quantity, UnitPrice: d(unitPrice)},
		},
	}
}

func TestService_Complete_ReceivesStockAndTracksPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	order := pendingOrder(productID, 10, "12.00")
	itemID := order.Items[0].ID

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	products := map[uuid.UUID]*inventory.Product{
		productID: {ID: productID, Name: "Widget", CurrentStock: 5, PurchasePrice: d("10.00")},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).Return(products, nil)
	tx.EXPECT().
		SaveProducts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, touched []*inventory.Product) error {
			require.Len(t, touched, 1)
			assert.Equal(t, int64(15), touched[0].CurrentStock)
			assert.True(t, touched[0].PurchasePrice.Equal(d("12.00")))
			return nil
		})
	tx.EXPECT().
		InsertPriceHistory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*inventory.PriceRecord) error {
			require.Len(t, records, 1)
			assert.Equal(t, productID, records[0].ProductID)
			assert.True(t, records[0].PurchasePrice.Equal(d("12.00")))
			assert.Equal(t, order.ID, records[0].PurchaseOrderID)
			assert.Equal(t, int64(10), records[0].QuantityReceived)
			return nil
		})
	tx.EXPECT().
		SaveOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *purchase.Order) error {
			assert.Equal(t, purchase.StatusCompleted, o.Status)
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	got, err := svc.Complete(context.Background(), order.ID, map[uuid.UUID]int64{itemID: 10})

	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCompleted, got.Status)
	assert.Equal(t, int64(10), got.Items[0].ReceivedQuantity)
}

// Receiving at the cost already on file writes no price-history row.
func TestService_Complete_UnchangedPriceNoHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	order := pendingOrder(productID, 4, "10.00")
	itemID := order.Items[0].ID

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	products := map[uuid.UUID]*inventory.Product{
		productID: {ID: productID, CurrentStock: 0, PurchasePrice: d("10.00")},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).Return(products, nil)
	tx.EXPECT().SaveProducts(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	got, err := svc.Complete(context.Background(), order.ID, map[uuid.UUID]int64{itemID: 4})

	require.NoError(t, err)
	assert.Equal(t, int64(4), products[productID].CurrentStock)
	assert.Equal(t, purchase.StatusCompleted, got.Status)
}

func TestService_Complete_AlreadyCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order := pendingOrder(uuid.New(), 5, "10.00")
	order.Status = purchase.StatusCompleted

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	_, err := svc.Complete(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, purchase.ErrAlreadyCompleted)
}

func TestService_Complete_OverReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order := pendingOrder(uuid.New(), 5, "10.00")
	itemID := order.Items[0].ID

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	_, err := svc.Complete(context.Background(), order.ID, map[uuid.UUID]int64{itemID: 6})

	var overErr *purchase.OverReceiptError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, itemID, overErr.ItemID)
	assert.Equal(t, int64(6), overErr.Received)
	assert.Equal(t, int64(5), overErr.Ordered)
}

func TestService_Complete_ItemNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order := pendingOrder(uuid.New(), 5, "10.00")
	unknownItem := uuid.New()

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	_, err := svc.Complete(context.Background(), order.ID, map[uuid.UUID]int64{unknownItem: 1})

	var notFoundErr *purchase.ItemNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, unknownItem, notFoundErr.ItemID)
}

func TestService_Complete_NegativeQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order := pendingOrder(uuid.New(), 5, "10.00")
	itemID := order.Items[0].ID

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	_, err := svc.Complete(context.Background(), order.ID, map[uuid.UUID]int64{itemID: -1})
	assert.ErrorIs(t, err, purchase.ErrNegativeQuantity)
}

// Nothing received still completes the order, with no product writes.
func TestService_Complete_NothingReceived(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order := pendingOrder(uuid.New(), 5, "10.00")
	itemID := order.Items[0].ID

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OrderForUpdate(gomock.Any(), order.ID).Return(order, nil)
	tx.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := purchase.NewService(repo)

	got, err := svc.Complete(context.Background(), order.ID, map[uuid.UUID]int64{itemID: 0})

	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCompleted, got.Status)
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()

	repo := purchase.NewMockRepository(ctrl)
	repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(&purchase.Order{ID: orderID}, nil)

	svc := purchase.NewService(repo)

	got, err := svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, got.ID)
}

package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"retailcore/internal/inventory"
)

func TestService_Adjust(t *testing.T) {
	productID := uuid.New()

	type testCase struct {
		name      string
		params    inventory.AdjustParams
		setupMock func(repo *inventory.MockRepository, tx *inventory.MockTx)
		wantStock int64
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Increase",
			params: inventory.AdjustParams{
				ProductID: productID,
				Direction: inventory.DirectionIncrease,
				Quantity:  5,
				Reason:    "cycle count correction",
			},
			setupMock: func(repo *inventory.MockRepository, tx *inventory.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).
					Return(map[uuid.UUID]*inventory.Product{
						productID: {ID: productID, Name: "Widget", CurrentStock: 3},
					}, nil)
				tx.EXPECT().SaveStockLevels(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().
					InsertAdjustment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, adj *inventory.Adjustment) error {
						assert.Equal(t, productID, adj.ProductID)
						assert.Equal(t, inventory.DirectionIncrease, adj.Direction)
						assert.Equal(t, int64(5), adj.Quantity)
						adj.ID = uuid.New()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStock: 8,
		},
		{
			name: "DecreaseBelowZero",
			params: inventory.AdjustParams{
				ProductID: productID,
				Direction: inventory.DirectionDecrease,
				Quantity:  4,
				Reason:    "damage write-off",
			},
			setupMock: func(repo *inventory.MockRepository, tx *inventory.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).
					Return(map[uuid.UUID]*inventory.Product{
						productID: {ID: productID, Name: "Widget", CurrentStock: 3},
					}, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: true,
		},
		{
			name: "ZeroQuantity",
			params: inventory.AdjustParams{
				ProductID: productID,
				Direction: inventory.DirectionIncrease,
				Quantity:  0,
			},
			wantErr: true,
		},
		{
			name: "UnknownProduct",
			params: inventory.AdjustParams{
				ProductID: productID,
				Direction: inventory.DirectionIncrease,
				Quantity:  1,
			},
			setupMock: func(repo *inventory.MockRepository, tx *inventory.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).
					Return(map[uuid.UUID]*inventory.Product{}, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := inventory.NewMockRepository(ctrl)
			tx := inventory.NewMockTx(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := inventory.NewService(repo)
			got, err := svc.Adjust(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, got.CurrentStock)
		})
	}
}

func TestService_Adjust_InsufficientStockDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()

	repo := inventory.NewMockRepository(ctrl)
	tx := inventory.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		ProductsForUpdate(gomock.Any(), []uuid.UUID{productID}).
		Return(map[uuid.UUID]*inventory.Product{
			productID: {ID: productID, Name: "Widget", CurrentStock: 2},
		}, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := inventory.NewService(repo)

	_, err := svc.Adjust(context.Background(), inventory.AdjustParams{
		ProductID: productID,
		Direction: inventory.DirectionDecrease,
		Quantity:  3,
	})

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(3), stockErr.Required)
	assert.Equal(t, int64(2), stockErr.Available)
}

func TestService_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().LowStock(gomock.Any()).Return([]*inventory.Product{
		{ID: uuid.New(), CurrentStock: 1, MinimumStock: 5},
	}, nil)

	svc := inventory.NewService(repo)

	got, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_PriceHistory_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().PriceHistory(gomock.Any(), productID, 50).Return(nil, nil)

	svc := inventory.NewService(repo)

	_, err := svc.PriceHistory(context.Background(), productID, 0)
	assert.NoError(t, err)
}

func TestService_Adjust_BeginError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("db down"))

	svc := inventory.NewService(repo)

	_, err := svc.Adjust(context.Background(), inventory.AdjustParams{
		ProductID: uuid.New(),
		Direction: inventory.DirectionIncrease,
		Quantity:  1,
	})
	assert.Error(t, err)
}

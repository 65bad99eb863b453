package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/inventory"
)

type productResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CurrentStock  int64           `json:"current_stock"`
	MinimumStock  int64           `json:"minimum_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func toProductResponse(p *inventory.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		MinimumStock:  p.MinimumStock,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductResponseList(products []*inventory.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}

	return resp
}

type priceRecordResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	PurchaseOrderID  uuid.UUID       `json:"purchase_order_id"`
	QuantityReceived int64           `json:"quantity_received"`
	EffectiveDate    time.Time       `json:"effective_date"`
}

func toPriceHistoryResponse(records []*inventory.PriceRecord) []priceRecordResponse {
	resp := make([]priceRecordResponse, len(records))
	for i, rec := range records {
		resp[i] = priceRecordResponse{
			ID:               rec.ID,
			ProductID:        rec.ProductID,
			PurchasePrice:    rec.PurchasePrice,
			PurchaseOrderID:  rec.PurchaseOrderID,
			QuantityReceived: rec.QuantityReceived,
			EffectiveDate:    rec.EffectiveDate,
		}
	}

	return resp
}

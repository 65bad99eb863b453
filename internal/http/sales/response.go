package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/sale"
)

type saleItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

type saleResponse struct {
	ID             uuid.UUID              `json:"id"`
	CustomerID     *uuid.UUID             `json:"customer_id,omitempty"`
	PaymentMethod  customer.PaymentMethod `json:"payment_method"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	AmountPaid     decimal.Decimal        `json:"amount_paid"`
	ChangeAmount   decimal.Decimal        `json:"change_amount"`
	Notes          string                 `json:"notes,omitempty"`
	Items          []saleItemResponse     `json:"items"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toResponse(tr *sale.Transaction) saleResponse {
	items := make([]saleItemResponse, len(tr.Items))
	for i, item := range tr.Items {
		items[i] = saleItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			Total:          item.Total(),
		}
	}

	return saleResponse{
		ID:             tr.ID,
		CustomerID:     tr.CustomerID,
		PaymentMethod:  tr.PaymentMethod,
		Subtotal:       tr.Subtotal,
		DiscountAmount: tr.DiscountAmount,
		TaxAmount:      tr.TaxAmount,
		TotalAmount:    tr.TotalAmount,
		AmountPaid:     tr.AmountPaid,
		ChangeAmount:   tr.ChangeAmount,
		Notes:          tr.Notes,
		Items:          items,
		CreatedAt:      tr.CreatedAt,
	}
}

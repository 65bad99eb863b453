package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/returns"
)

type returnItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type returnResponse struct {
	ID            uuid.UUID            `json:"id"`
	TransactionID uuid.UUID            `json:"transaction_id"`
	RefundMethod  returns.RefundMethod `json:"refund_method"`
	RefundAmount  decimal.Decimal      `json:"refund_amount"`
	Reason        string               `json:"reason,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Items         []returnItemResponse `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toResponse(ret *returns.Return) returnResponse {
	items := make([]returnItemResponse, len(ret.Items))
	for i, item := range ret.Items {
		items[i] = returnItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return returnResponse{
		ID:            ret.ID,
		TransactionID: ret.TransactionID,
		RefundMethod:  ret.RefundMethod,
		RefundAmount:  ret.RefundAmount,
		Reason:        ret.Reason,
		Notes:         ret.Notes,
		Items:         items,
		CreatedAt:     ret.CreatedAt,
	}
}

func toResponseList(rets []*returns.Return) []returnResponse {
	resp := make([]returnResponse, len(rets))
	for i, ret := range rets {
		resp[i] = toResponse(ret)
	}

	return resp
}

package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/returns"
	"retailcore/internal/sale"
)

type balanceResponse struct {
	CustomerID         uuid.UUID       `json:"customer_id"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	AmountOwed         decimal.Decimal `json:"amount_owed"`
	AvailableCredit    decimal.Decimal `json:"available_credit"`
	Status             string          `json:"status"`
}

func toBalanceResponse(s *customer.BalanceSummary) balanceResponse {
	return balanceResponse{
		CustomerID:         s.CustomerID,
		OutstandingBalance: s.OutstandingBalance.Amount(),
		AmountOwed:         s.OutstandingBalance.Owed(),
		AvailableCredit:    s.OutstandingBalance.AvailableCredit(),
		Status:             s.Status,
	}
}

type depositResponse struct {
	ID            uuid.UUID              `json:"id"`
	CustomerID    uuid.UUID              `json:"customer_id"`
	Amount        decimal.Decimal        `json:"amount"`
	PaymentMethod customer.PaymentMethod `json:"payment_method"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

func toDepositResponse(d *customer.Deposit) depositResponse {
	return depositResponse{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		Amount:        d.Amount,
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
	}
}

func toDepositResponseList(deps []*customer.Deposit) []depositResponse {
	resp := make([]depositResponse, len(deps))
	for i, d := range deps {
		resp[i] = toDepositResponse(d)
	}

	return resp
}

type repaymentResponse struct {
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
}

func toRepaymentResponse(rep *customer.Repayment) repaymentResponse {
	return repaymentResponse{
		AmountPaid:       rep.AmountPaid,
		RemainingBalance: rep.Remaining.Amount(),
		Status:           rep.Remaining.Status(),
	}
}

type purchaseSummaryResponse struct {
	ID            uuid.UUID              `json:"id"`
	PaymentMethod customer.PaymentMethod `json:"payment_method"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	AmountPaid    decimal.Decimal        `json:"amount_paid"`
	ItemCount     int                    `json:"item_count"`
	CreatedAt     time.Time              `json:"created_at"`
}

func toPurchaseHistoryResponse(trs []*sale.Transaction) []purchaseSummaryResponse {
	resp := make([]purchaseSummaryResponse, len(trs))
	for i, tr := range trs {
		resp[i] = purchaseSummaryResponse{
			ID:            tr.ID,
			PaymentMethod: tr.PaymentMethod,
			TotalAmount:   tr.TotalAmount,
			AmountPaid:    tr.AmountPaid,
			ItemCount:     len(tr.Items),
			CreatedAt:     tr.CreatedAt,
		}
	}

	return resp
}

type returnSummaryResponse struct {
	ID            uuid.UUID            `json:"id"`
	TransactionID uuid.UUID            `json:"transaction_id"`
	RefundMethod  returns.RefundMethod `json:"refund_method"`
	RefundAmount  decimal.Decimal      `json:"refund_amount"`
	ItemCount     int                  `json:"item_count"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toReturnHistoryResponse(rets []*returns.Return) []returnSummaryResponse {
	resp := make([]returnSummaryResponse, len(rets))
	for i, ret := range rets {
		resp[i] = returnSummaryResponse{
			ID:            ret.ID,
			TransactionID: ret.TransactionID,
			RefundMethod:  ret.RefundMethod,
			RefundAmount:  ret.RefundAmount,
			ItemCount:     len(ret.Items),
			CreatedAt:     ret.CreatedAt,
		}
	}

	return resp
}

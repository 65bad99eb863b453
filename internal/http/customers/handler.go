package customers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/returns"
	"retailcore/internal/sale"
)

type Handler struct {
	customers *customer.Service
	sales     *sale.Service
	returns   *returns.Service
}

func NewHandler(customers *customer.Service, sales *sale.Service, rets *returns.Service) *Handler {
	return &Handler{customers: customers, sales: sales, returns: rets}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/balance", h.balance)
	r.Post("/{id}/deposits", h.recordDeposit)
	r.Get("/{id}/deposits", h.listDeposits)
	r.Post("/{id}/repay", h.repay)
	r.Get("/{id}/purchases", h.purchaseHistory)
	r.Get("/{id}/returns", h.returnHistory)
}

func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	summary, err := h.customers.BalanceSummary(r.Context(), id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBalanceResponse(summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type depositRequest struct {
	Amount        decimal.Decimal        `json:"amount"`
	PaymentMethod customer.PaymentMethod `json:"payment_method"`
	Notes         string                 `json:"notes"`
}

func (h *Handler) recordDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dep, err := h.customers.RecordDeposit(r.Context(), customer.DepositParams{
		CustomerID:    id,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toDepositResponse(dep)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listDeposits(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	deps, err := h.customers.Deposits(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toDepositResponseList(deps)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type repayRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) repay(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var req repayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	repayment, err := h.customers.RepayDebt(r.Context(), id, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRepaymentResponse(repayment)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customer.ErrNonPositiveAmount),
		errors.Is(err, customer.ErrUnknownPaymentMethod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, customer.ErrNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case errors.Is(err, customer.ErrNoOutstandingDebt):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) purchaseHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	trs, err := h.sales.ListByCustomer(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPurchaseHistoryResponse(trs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) returnHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	rets, err := h.returns.ListByCustomer(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReturnHistoryResponse(rets)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

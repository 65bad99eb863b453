package returns

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/inventory"
	"retailcore/internal/returns"
	"retailcore/internal/sale"
)

type Handler struct {
	svc *returns.Service
}

func NewHandler(svc *returns.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type createItemRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createReturnRequest struct {
	TransactionID uuid.UUID            `json:"transaction_id"`
	RefundMethod  returns.RefundMethod `json:"refund_method"`
	Items         []createItemRequest  `json:"items"`
	Reason        string               `json:"reason"`
	Notes         string               `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]returns.ItemParams, len(req.Items))
	for i, item := range req.Items {
		items[i] = returns.ItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	ret, err := h.svc.Create(r.Context(), returns.CreateParams{
		TransactionID: req.TransactionID,
		RefundMethod:  req.RefundMethod,
		Items:         items,
		Reason:        req.Reason,
		Notes:         req.Notes,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(ret)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeCreateError(w http.ResponseWriter, err error) {
	var exceedsErr *returns.ReturnExceedsAvailableError

	switch {
	case errors.Is(err, returns.ErrEmptyReturn),
		errors.Is(err, returns.ErrUnknownRefundMethod),
		errors.Is(err, returns.ErrCreditRefundRequiresCustomer),
		errors.Is(err, inventory.ErrNonPositiveQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sale.ErrNotFound):
		http.Error(w, "sale not found", http.StatusNotFound)
	case errors.Is(err, returns.ErrProductNotSold):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &exceedsErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, inventory.ErrConcurrentStockChange):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	transactionID, err := uuid.Parse(r.URL.Query().Get("transaction_id"))
	if err != nil {
		http.Error(w, "transaction_id is required", http.StatusBadRequest)
		return
	}

	rets, err := h.svc.ListByTransaction(r.Context(), transactionID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(rets)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

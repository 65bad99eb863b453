package sales

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailcore/internal/customer"
	"retailcore/internal/inventory"
	"retailcore/internal/sale"
)

type Handler struct {
	svc *sale.Service
}

func NewHandler(svc *sale.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
}

type createItemRequest struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

type createSaleRequest struct {
	CustomerID     *uuid.UUID             `json:"customer_id,omitempty"`
	PaymentMethod  customer.PaymentMethod `json:"payment_method"`
	Items          []createItemRequest    `json:"items"`
	AmountPaid     decimal.Decimal        `json:"amount_paid"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	Notes          string                 `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]sale.ItemParams, len(req.Items))
	for i, item := range req.Items {
		items[i] = sale.ItemParams{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
		}
	}

	tr, err := h.svc.Create(r.Context(), sale.CreateParams{
		CustomerID:     req.CustomerID,
		PaymentMethod:  req.PaymentMethod,
		Items:          items,
		AmountPaid:     req.AmountPaid,
		DiscountAmount: req.DiscountAmount,
		TaxAmount:      req.TaxAmount,
		Notes:          req.Notes,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tr)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeCreateError(w http.ResponseWriter, err error) {
	var stockErr *inventory.InsufficientStockError

	switch {
	case errors.Is(err, sale.ErrEmptyTransaction),
		errors.Is(err, sale.ErrMissingPayment),
		errors.Is(err, sale.ErrCreditRequiresCustomer),
		errors.Is(err, customer.ErrUnknownPaymentMethod),
		errors.Is(err, inventory.ErrNonPositiveQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &stockErr):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, inventory.ErrConcurrentStockChange):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, inventory.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tr, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tr)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Completed sales are append-only; any PATCH is rejected.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Update(r.Context(), id); err != nil {
		if errors.Is(err, sale.ErrImmutableRecord) {
			http.Error(w, "completed sales cannot be modified", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

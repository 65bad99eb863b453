package products

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"retailcore/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/low-stock", h.lowStock)
	r.Post("/{id}/adjust-stock", h.adjustStock)
	r.Get("/{id}/price-history", h.priceHistory)
}

type adjustStockRequest struct {
	Direction inventory.Direction `json:"direction"`
	Quantity  int64               `json:"quantity"`
	Reason    string              `json:"reason"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Adjust(r.Context(), inventory.AdjustParams{
		ProductID: id,
		Direction: req.Direction,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		writeAdjustError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toProductResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeAdjustError(w http.ResponseWriter, err error) {
	var stockErr *inventory.InsufficientStockError

	switch {
	case errors.Is(err, inventory.ErrNonPositiveQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, inventory.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.As(err, &stockErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, inventory.ErrConcurrentStockChange):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.LowStock(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toProductResponseList(products)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) priceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	records, err := h.svc.PriceHistory(r.Context(), id, limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPriceHistoryResponse(records)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

package purchases

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"retailcore/internal/inventory"
	"retailcore/internal/purchase"
)

type Handler struct {
	svc *purchase.Service
}

func NewHandler(svc *purchase.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Post("/{id}/complete", h.complete)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, purchase.ErrNotFound) {
			http.Error(w, "purchase order not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(order)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type completeRequest struct {
	// Received maps order item id to the quantity actually delivered.
	Received map[uuid.UUID]int64 `json:"received"`
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.svc.Complete(r.Context(), id, req.Received)
	if err != nil {
		writeCompleteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(order)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeCompleteError(w http.ResponseWriter, err error) {
	var (
		itemErr *purchase.ItemNotFoundError
		overErr *purchase.OverReceiptError
	)

	switch {
	case errors.Is(err, purchase.ErrNotFound):
		http.Error(w, "purchase order not found", http.StatusNotFound)
	case errors.Is(err, purchase.ErrAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &itemErr), errors.Is(err, purchase.ErrNegativeQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &overErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, inventory.ErrConcurrentStockChange):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

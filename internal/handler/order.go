package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/handler/dto"
	"github.com/pawmart/pawmart/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	responder
	svc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// List handles GET /orders. The buyer is always the authenticated subject;
// a user_email query parameter has no effect.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context(), auth.MustSubjectFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Create(r.Context(), doc)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("order_created", "order_id", res.InsertedID)

	writeJSON(w, http.StatusOK, dto.ToCreateResponse(res))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("order_deleted", "order_id", id, "deleted", res.DeletedCount)

	writeJSON(w, http.StatusOK, dto.ToDeleteResponse(res))
}

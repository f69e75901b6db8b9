package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/handler/dto"
	"github.com/pawmart/pawmart/internal/service"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	responder
	svc *service.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc *service.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// List handles GET /listings?category=.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// Latest handles GET /latest-listings.
func (h *ListingHandler) Latest(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Latest(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// Mine handles GET /my-list. Query parameters are ignored; the owner is
// always the authenticated subject.
func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Mine(r.Context(), auth.MustSubjectFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// Create handles POST /listings.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	subject := auth.MustSubjectFromContext(r.Context())
	res, err := h.svc.Create(r.Context(), subject, doc)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("listing_created",
		"listing_id", res.InsertedID,
		"owner", subject.Email,
	)

	writeJSON(w, http.StatusOK, dto.ToCreateResponse(res))
}

// Get handles GET /listings/{id}.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Update handles PATCH /listings/{id}.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	changes, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	res, err := h.svc.Update(r.Context(), auth.MustSubjectFromContext(r.Context()), id, changes)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("listing_updated", "listing_id", id, "modified", res.ModifiedCount)

	writeJSON(w, http.StatusOK, dto.ToUpdateResponse(res))
}

// Delete handles DELETE /listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.svc.Delete(r.Context(), auth.MustSubjectFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("listing_deleted", "listing_id", id, "deleted", res.DeletedCount)

	writeJSON(w, http.StatusOK, dto.ToDeleteResponse(res))
}

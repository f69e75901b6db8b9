package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/handler/dto"
	"github.com/pawmart/pawmart/internal/service"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	responder
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Create(r.Context(), doc)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if res.Existing {
		h.logger.Info("user_exists")
	} else {
		h.logger.Info("user_created", "user_id", res.InsertedID)
	}

	writeJSON(w, http.StatusOK, dto.ToCreateResponse(res))
}

// Update handles PATCH /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	h.logger.Info("user_updated", "user_id", id, "modified", res.ModifiedCount)

	writeJSON(w, http.StatusOK, dto.ToUpdateResponse(res))
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.svc.Delete(r.Context(), auth.MustSubjectFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id, "deleted", res.DeletedCount)

	writeJSON(w, http.StatusOK, dto.ToDeleteResponse(res))
}

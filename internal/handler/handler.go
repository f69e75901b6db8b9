// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pawmart/pawmart/internal/handler/dto"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/service"
	"github.com/pawmart/pawmart/internal/store"
)

// Handler serves the endpoints that need no collaborators.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is the liveness text endpoint.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "PawMart is running")
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
		Error: "resource not found",
		Code:  "NOT_FOUND",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{
		Error: "method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}

// responder holds the error and body plumbing shared by entity handlers.
type responder struct {
	logger *slog.Logger
}

// errInvalidJSON is returned by decodeDocument for bodies that are not a JSON object.
var errInvalidJSON = errors.New("invalid JSON body")

// decodeDocument reads a JSON object body. An empty body or a JSON null
// yields an empty document.
func decodeDocument(r *http.Request) (model.Document, error) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Document{}, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, maxErr
		}
		return nil, errInvalidJSON
	}
	if doc == nil {
		doc = model.Document{}
	}
	return doc, nil
}

// readDocument decodes the body and writes the error response on failure.
func (h responder) readDocument(w http.ResponseWriter, r *http.Request) (model.Document, bool) {
	doc, err := decodeDocument(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large")
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return nil, false
	}
	return doc, true
}

// handleServiceError maps service errors to HTTP responses.
func (h responder) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validation.Message)
	case errors.Is(err, service.ErrInvalidIdentifier):
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid identifier")
	case errors.Is(err, service.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to modify this resource")
	case errors.Is(err, service.ErrListingNotFound):
		h.writeError(w, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, service.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, store.ErrUnavailable):
		h.logger.Error("store_unavailable",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		h.writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h responder) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

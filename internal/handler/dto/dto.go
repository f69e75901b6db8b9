// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/pawmart/pawmart/internal/service"

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// InsertResponse reports a created document.
type InsertResponse struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// MessageResponse reports a soft outcome that changed nothing.
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateResponse reports how many documents an update matched and modified.
type UpdateResponse struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResponse reports how many documents a delete removed.
type DeleteResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	DeletedCount int64  `json:"deletedCount"`
	Message      string `json:"message,omitempty"`
}

// ToCreateResponse converts a create result. Soft outcomes become a MessageResponse.
func ToCreateResponse(res *service.CreateResult) any {
	if res.Existing {
		return MessageResponse{Message: res.Message}
	}
	return InsertResponse{Acknowledged: true, InsertedID: res.InsertedID}
}

// ToUpdateResponse converts an update result.
func ToUpdateResponse(res *service.UpdateResult) UpdateResponse {
	return UpdateResponse{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

// ToDeleteResponse converts a delete result.
func ToDeleteResponse(res *service.DeleteResult) DeleteResponse {
	return DeleteResponse{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
		Message:      res.Message,
	}
}

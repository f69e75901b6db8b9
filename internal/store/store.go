// Package store defines the collection gateway over the backing document store.
// Implementations live in subpackages (mongo, postgres, memory).
package store

import (
	"context"
	"errors"

	"github.com/pawmart/pawmart/internal/model"
)

// Gateway errors.
var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned by InsertOne on a unique key violation.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidID is returned by ParseID for malformed identifiers.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUnavailable wraps every other driver failure.
	ErrUnavailable = errors.New("store unavailable")
)

// Filter is a conjunction of exact-match conditions keyed by field name.
// The model.FieldID key expects a value returned by Store.ParseID.
type Filter map[string]any

// SortDirection orders query results.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

// Sort names a single sort key.
type Sort struct {
	Field     string
	Direction SortDirection
}

// FindOptions shapes a Find query. Zero value means unsorted and unlimited.
type FindOptions struct {
	Sort  *Sort
	Limit int64
}

// InsertResult describes a completed insert.
type InsertResult struct {
	InsertedID any
}

// UpdateResult describes a completed update.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult describes a completed delete.
type DeleteResult struct {
	DeletedCount int64
}

// Collection is the CRUD surface of a single collection.
type Collection interface {
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]model.Document, error)
	FindOne(ctx context.Context, filter Filter) (model.Document, error)
	InsertOne(ctx context.Context, doc model.Document) (*InsertResult, error)
	// UpdateOne sets the given fields on the first matching document.
	UpdateOne(ctx context.Context, filter Filter, set model.Document) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error)
}

// Store is a connected document store.
type Store interface {
	Collection(name string) Collection
	// ParseID validates a raw identifier and returns its store-native form.
	ParseID(raw string) (any, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ByID builds a filter matching a single identifier.
func ByID(id any) Filter {
	return Filter{model.FieldID: id}
}

// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
)

// Service errors.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrForbidden         = errors.New("forbidden")
	ErrListingNotFound   = errors.New("listing not found")
	ErrOrderNotFound     = errors.New("order not found")
)

// Soft outcome messages returned to clients alongside a successful status.
const (
	MsgUserExists   = "User already exist"
	MsgUserNotFound = "User not found"
)

// ValidationError is a client input problem with a message safe to show.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var (
	errNoFields      = &ValidationError{Message: "No fields to update"}
	errEmailRequired = &ValidationError{Message: "email is required"}
)

// CreateResult describes a create call.
// Existing is set when nothing was inserted because the record already exists.
type CreateResult struct {
	InsertedID any
	Existing   bool
	Message    string
}

// UpdateResult describes an update call.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult describes a delete call.
type DeleteResult struct {
	DeletedCount int64
	Message      string
}

// collection bundles what every entity service needs for one collection.
type collection struct {
	name    string
	store   store.Store
	coll    store.Collection
	metrics metrics.Recorder
}

func newCollection(st store.Store, name string, recorder metrics.Recorder) collection {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return collection{
		name:    name,
		store:   st,
		coll:    st.Collection(name),
		metrics: recorder,
	}
}

// parseID validates a client-supplied identifier before any query is built.
func (c collection) parseID(raw string) (any, error) {
	id, err := c.store.ParseID(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id, nil
}

// fail annotates a gateway error and counts store faults.
func (c collection) fail(op string, err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		c.metrics.IncStoreError(op)
	}
	return fmt.Errorf("failed to %s %s: %w", op, c.name, err)
}

func (c collection) insert(ctx context.Context, doc model.Document) (*CreateResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	c.metrics.IncDocumentCreated(c.name)
	return &CreateResult{InsertedID: res.InsertedID}, nil
}

// changeSet strips server-controlled fields and rejects an empty result.
func changeSet(changes model.Document, controlled []string) (model.Document, error) {
	set := changes.Without(controlled...)
	if len(set) == 0 {
		return nil, errNoFields
	}
	return set, nil
}

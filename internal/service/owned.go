package service

import (
	"context"
	"errors"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/policy"
	"github.com/pawmart/pawmart/internal/store"
)

// ownedCollection is a collection whose mutations are gated by a
// per-document ownership policy.
type ownedCollection struct {
	collection
	authz      *policy.DocumentAuthorizer
	controlled []string
}

// update loads the target, enforces the update policy and applies the change set.
// A missing target is reported as zero matched.
func (c ownedCollection) update(ctx context.Context, subject auth.Subject, rawID string, changes model.Document) (*UpdateResult, error) {
	id, err := c.parseID(rawID)
	if err != nil {
		return nil, err
	}
	set, err := changeSet(changes, c.controlled)
	if err != nil {
		return nil, err
	}

	current, err := c.coll.FindOne(ctx, store.ByID(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &UpdateResult{}, nil
		}
		return nil, c.fail("find", err)
	}
	if !c.authz.Enforce(subject, policy.ActionUpdate, current) {
		return nil, ErrForbidden
	}

	res, err := c.coll.UpdateOne(ctx, store.ByID(id), set)
	if err != nil {
		return nil, c.fail("update", err)
	}
	if res.ModifiedCount > 0 {
		c.metrics.IncDocumentUpdated(c.name)
	}
	return &UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// remove loads the target, enforces the delete policy and deletes it.
// The boolean is false when no document had the id.
func (c ownedCollection) remove(ctx context.Context, subject auth.Subject, rawID string) (*DeleteResult, bool, error) {
	id, err := c.parseID(rawID)
	if err != nil {
		return nil, false, err
	}

	current, err := c.coll.FindOne(ctx, store.ByID(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &DeleteResult{}, false, nil
		}
		return nil, false, c.fail("find", err)
	}
	if !c.authz.Enforce(subject, policy.ActionDelete, current) {
		return nil, false, ErrForbidden
	}

	res, err := c.coll.DeleteOne(ctx, store.ByID(id))
	if err != nil {
		return nil, false, c.fail("delete", err)
	}
	if res.DeletedCount == 0 {
		return &DeleteResult{}, false, nil
	}
	c.metrics.IncDocumentDeleted(c.name)
	return &DeleteResult{DeletedCount: res.DeletedCount}, true, nil
}

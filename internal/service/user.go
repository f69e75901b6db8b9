package service

import (
	"context"
	"errors"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/policy"
	"github.com/pawmart/pawmart/internal/store"
)

// UserService handles user profiles.
type UserService struct {
	users ownedCollection
}

// NewUserService creates a new UserService.
func NewUserService(st store.Store, recorder metrics.Recorder) *UserService {
	return &UserService{
		users: ownedCollection{
			collection: newCollection(st, model.CollectionUsers, recorder),
			authz:      policy.Users(),
			controlled: model.UserControlledFields,
		},
	}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.users.coll.Find(ctx, store.Filter{}, store.FindOptions{})
	if err != nil {
		return nil, s.users.fail("list", err)
	}
	return docs, nil
}

// Create inserts the user unless one with the same email exists.
// An existing user is a successful no-op with Existing set.
func (s *UserService) Create(ctx context.Context, doc model.Document) (*CreateResult, error) {
	email := doc.String(model.UserFieldEmail)
	if email == "" {
		return nil, errEmailRequired
	}

	_, err := s.users.coll.FindOne(ctx, store.Filter{model.UserFieldEmail: email})
	switch {
	case err == nil:
		return existingUser(), nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, s.users.fail("find", err)
	}

	res, err := s.users.insert(ctx, doc.Without(model.FieldID))
	if err != nil {
		// Lost a race with a concurrent create for the same email.
		if errors.Is(err, store.ErrDuplicate) {
			return existingUser(), nil
		}
		return nil, s.users.fail("insert", err)
	}
	return res, nil
}

// Update applies changes to the subject's own profile.
func (s *UserService) Update(ctx context.Context, subject auth.Subject, id string, changes model.Document) (*UpdateResult, error) {
	return s.users.update(ctx, subject, id, changes)
}

// Delete removes the subject's own profile. A missing user is a soft
// success carrying MsgUserNotFound.
func (s *UserService) Delete(ctx context.Context, subject auth.Subject, id string) (*DeleteResult, error) {
	res, found, err := s.users.remove(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if !found {
		res.Message = MsgUserNotFound
	}
	return res, nil
}

func existingUser() *CreateResult {
	return &CreateResult{Existing: true, Message: MsgUserExists}
}

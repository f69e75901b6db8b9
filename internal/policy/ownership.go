package policy

import (
	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/model"
)

// Actions guarded by ownership.
const (
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// DocumentAuthorizer decides what a verified subject may do to a stored document.
type DocumentAuthorizer = Authorizer[auth.Subject, model.Document]

// OwnedBy allows the action only when the document's ownerField equals the
// subject's email. Documents without an owner are never writable.
func OwnedBy(ownerField string) Effector[auth.Subject, model.Document] {
	return func(s auth.Subject, doc model.Document) bool {
		owner := doc.String(ownerField)
		return owner != "" && owner == s.Email
	}
}

// NewOwnerOnly returns an authorizer that restricts update and delete to
// the document's owner.
func NewOwnerOnly(ownerField string) *DocumentAuthorizer {
	a := NewAuthorizer[auth.Subject, model.Document]()
	a.AddPolicy(ActionUpdate, OwnedBy(ownerField))
	a.AddPolicy(ActionDelete, OwnedBy(ownerField))
	return a
}

// Users guards user profiles: only the user themselves may change them.
func Users() *DocumentAuthorizer {
	return NewOwnerOnly(model.UserFieldEmail)
}

// Listings guards listings: only the seller may change them.
func Listings() *DocumentAuthorizer {
	return NewOwnerOnly(model.ListingFieldOwnerEmail)
}

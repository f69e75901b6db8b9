/*
Package policy holds the resource access policies of the marketplace as code.

An [Authorizer] maps action names to [Effector] functions deciding whether a
subject may perform the action on a resource:

	authz := policy.NewAuthorizer[auth.Subject, model.Document]()
	authz.AddPolicy(policy.ActionDelete, policy.OwnedBy("email"))

	if !authz.Enforce(subject, policy.ActionDelete, listing) {
		// deny
	}
*/
package policy

// Effector decides whether an action is allowed for a subject on a resource.
type Effector[S any, R any] func(S, R) bool

// Authorizer is a set of Effectors for a pair of types, keyed by action.
type Authorizer[S any, R any] struct {
	Policies map[string]Effector[S, R]
}

// NewAuthorizer instantiates an empty Authorizer.
func NewAuthorizer[S any, R any]() *Authorizer[S, R] {
	return &Authorizer[S, R]{
		Policies: map[string]Effector[S, R]{},
	}
}

// AddPolicy associates an Effector with an action. Panics if the action
// already has one.
func (a *Authorizer[S, R]) AddPolicy(action string, effect Effector[S, R]) {
	if _, ok := a.Policies[action]; ok {
		panic("a policy already exists for action " + action)
	}
	a.Policies[action] = effect
}

// Enforce runs the Effector registered for action. A missing policy is a
// programming error and panics.
func (a *Authorizer[S, R]) Enforce(subject S, action string, resource R) bool {
	fn, ok := a.Policies[action]
	if !ok {
		panic("no policies for action " + action)
	}
	return fn(subject, resource)
}

// Package auth verifies bearer tokens and carries the verified subject
// through request contexts.
package auth

import "context"

// Subject is the verified identity of a caller.
type Subject struct {
	Email string
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject adds the verified subject to the context.
func ContextWithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext retrieves the verified subject.
// The boolean is false when the request was not authenticated.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectContextKey).(Subject)
	return s, ok
}

// MustSubjectFromContext retrieves the verified subject.
// Panics if not present (use only when auth middleware has run).
func MustSubjectFromContext(ctx context.Context) Subject {
	s, ok := SubjectFromContext(ctx)
	if !ok {
		panic("auth subject not found - ensure auth middleware is applied")
	}
	return s
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Verification errors. Callers must not expose the distinction to clients.
var (
	ErrMissingHeader   = errors.New("authorization header missing")
	ErrMalformedHeader = errors.New("authorization header malformed")
	ErrInvalidToken    = errors.New("token invalid")
)

// TokenVerifier validates a raw token with an identity provider and
// returns the email claim it carries ("" if none).
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (email string, err error)
}

// Verifier turns an Authorization header value into a Subject.
type Verifier struct {
	tokens TokenVerifier
	logger *slog.Logger
}

// NewVerifier creates a Verifier backed by the given token verifier.
func NewVerifier(tokens TokenVerifier, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{tokens: tokens, logger: logger}
}

// Verify validates header, which is expected to look like "Bearer <token>".
func (v *Verifier) Verify(ctx context.Context, header string) (Subject, error) {
	if header == "" {
		return Subject{}, ErrMissingHeader
	}

	token, err := bearerToken(header)
	if err != nil {
		return Subject{}, err
	}

	email, err := v.tokens.VerifyToken(ctx, token)
	if err != nil {
		v.logger.Warn("token rejected by provider", slog.String("error", err.Error()))
		return Subject{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if email == "" {
		return Subject{}, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}

	v.logger.Info("token verified", slog.String("email", email))
	return Subject{Email: email}, nil
}

func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", ErrMalformedHeader
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

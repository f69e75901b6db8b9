package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	email string
	err   error
	got   string
}

func (s *stubTokens) VerifyToken(_ context.Context, token string) (string, error) {
	s.got = token
	return s.email, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		tokens    *stubTokens
		wantErr   error
		wantEmail string
		wantToken string
	}{
		{
			name:    "missing header",
			header:  "",
			tokens:  &stubTokens{email: "a@x.com"},
			wantErr: ErrMissingHeader,
		},
		{
			name:    "scheme only",
			header:  "Bearer",
			tokens:  &stubTokens{email: "a@x.com"},
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "whitespace only",
			header:  "   ",
			tokens:  &stubTokens{email: "a@x.com"},
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "wrong scheme",
			header:  "Basic dXNlcjpwYXNz",
			tokens:  &stubTokens{email: "a@x.com"},
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "provider rejects",
			header:  "Bearer expired",
			tokens:  &stubTokens{err: errors.New("token expired")},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no email claim",
			header:  "Bearer anonymous",
			tokens:  &stubTokens{},
			wantErr: ErrInvalidToken,
		},
		{
			name:      "valid",
			header:    "Bearer good-token",
			tokens:    &stubTokens{email: "a@x.com"},
			wantEmail: "a@x.com",
			wantToken: "good-token",
		},
		{
			name:      "extra whitespace",
			header:    "Bearer   good-token  ",
			tokens:    &stubTokens{email: "a@x.com"},
			wantEmail: "a@x.com",
			wantToken: "good-token",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewVerifier(tt.tokens, discardLogger())
			subject, err := v.Verify(context.Background(), tt.header)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, Subject{}, subject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, subject.Email)
			assert.Equal(t, tt.wantToken, tt.tokens.got)
		})
	}
}

func TestVerifier_HidesProviderErrorFromSentinel(t *testing.T) {
	t.Parallel()

	v := NewVerifier(&stubTokens{err: errors.New("kid mismatch")}, discardLogger())
	_, err := v.Verify(context.Background(), "Bearer t")

	require.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrMissingHeader)
	assert.NotErrorIs(t, err, ErrMalformedHeader)
}

func TestSubjectContext(t *testing.T) {
	t.Parallel()

	_, ok := SubjectFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithSubject(context.Background(), Subject{Email: "a@x.com"})
	s, ok := SubjectFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", s.Email)
	assert.Equal(t, s, MustSubjectFromContext(ctx))

	assert.Panics(t, func() { MustSubjectFromContext(context.Background()) })
}

func TestVerifier_LogsProviderRejection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	v := NewVerifier(&stubTokens{err: errors.New("ID token has expired")}, logger)

	_, err := v.Verify(context.Background(), "Bearer expired-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	out := buf.String()
	assert.Contains(t, out, "token rejected by provider")
	assert.Contains(t, out, "ID token has expired")
	assert.NotContains(t, out, "expired-token")
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_Roundtrip(t *testing.T) {
	t.Parallel()

	j := NewJWT("secret", "pawmart")
	token, err := j.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	email, err := j.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestJWT_Rejects(t *testing.T) {
	t.Parallel()

	issuer := NewJWT("secret", "pawmart")

	expired, err := issuer.Issue("a@x.com", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewJWT("other", "pawmart").Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewJWT("secret", "someone-else").Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "a@x.com"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Email:            "a@x.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"no expiry":    noExpiry,
		"wrong alg":    wrongAlg,
		"garbage":      "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.VerifyToken(context.Background(), token)
			assert.Error(t, err)
		})
	}
}

func TestJWT_EmptyIssuerSkipsCheck(t *testing.T) {
	t.Parallel()

	token, err := NewJWT("secret", "anyone").Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	email, err := NewJWT("secret", "").VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestJWT_WithVerifier(t *testing.T) {
	t.Parallel()

	j := NewJWT("secret", "")
	token, err := j.Issue("seller@x.com", time.Hour)
	require.NoError(t, err)

	s, err := NewVerifier(j, discardLogger()).Verify(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, Subject{Email: "seller@x.com"}, s)

	_, err = NewVerifier(j, discardLogger()).Verify(context.Background(), "Bearer "+token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims of a self-issued token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWT verifies and issues HS256 tokens signed with a shared secret.
type JWT struct {
	secretKey []byte
	issuer    string
}

// NewJWT creates an HS256 token verifier. An empty issuer disables the iss check.
func NewJWT(secretKey, issuer string) *JWT {
	return &JWT{secretKey: []byte(secretKey), issuer: issuer}
}

// VerifyToken implements TokenVerifier.
func (j *JWT) VerifyToken(_ context.Context, tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token is invalid")
	}
	return claims.Email, nil
}

// Issue signs a token for email valid for ttl.
func (j *JWT) Issue(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

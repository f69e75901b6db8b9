package auth

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// idTokenVerifier is the subset of *fbauth.Client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Firebase verifies Firebase ID tokens.
type Firebase struct {
	client idTokenVerifier
}

// NewFirebase initializes the Firebase admin SDK from a service account key.
func NewFirebase(ctx context.Context, serviceAccountJSON []byte) (*Firebase, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(serviceAccountJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}

	return &Firebase{client: client}, nil
}

// VerifyToken implements TokenVerifier.
func (f *Firebase) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	email, _ := token.Claims["email"].(string)
	return email, nil
}

// DecodeServiceKey decodes a base64-encoded service account key.
func DecodeServiceKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode service account key: %w", err)
	}
	return key, nil
}

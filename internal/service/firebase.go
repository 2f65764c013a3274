package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"sk8_webapp/internal/domain"
)

// TokenVerifier exchanges an identity-provider credential for a stable
// opaque uid.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (string, error)
}

// FirebaseVerifier validates Firebase ID tokens, for clients that sign
// in through Firebase Auth instead of guest sessions.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", domain.NewError(domain.KindUnauthenticated, "invalid identity token")
	}
	return token.UID, nil
}

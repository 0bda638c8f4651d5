package identity

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// IDTokenVerifier is the subset of *auth.Client used for verification.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier verifies Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client IDTokenVerifier
}

func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Name() string { return "firebase" }

func (v *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (*TokenIdentity, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	email, _ := tok.Claims["email"].(string)
	return &TokenIdentity{UserID: tok.UID, Email: email}, nil
}

package identity

import (
	"context"

	"collabuu-backend/utils"
)

// JWTVerifier accepts HS256 tokens issued by this service's own /auth routes.
type JWTVerifier struct{}

func NewJWTVerifier() *JWTVerifier { return &JWTVerifier{} }

func (v *JWTVerifier) Name() string { return "jwt" }

func (v *JWTVerifier) VerifyToken(ctx context.Context, token string) (*TokenIdentity, error) {
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &TokenIdentity{UserID: claims.Subject, Email: claims.Email}, nil
}

package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"collabuu-backend/apperr"
	"collabuu-backend/metrics"
	"collabuu-backend/models"
)

// ErrProfileNotFound is returned by a ProfileStore when the verified user has
// no stored profile.
var ErrProfileNotFound = errors.New("profile not found")

// Principal is the authenticated caller. It is resolved fresh on every request
// and never persisted.
type Principal struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// TokenIdentity is what the identity provider vouches for.
type TokenIdentity struct {
	UserID string
	Email  string
}

type Verifier interface {
	Name() string
	VerifyToken(ctx context.Context, token string) (*TokenIdentity, error)
}

type ProfileStore interface {
	LookupProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// Gate authenticates bearer tokens. Every call verifies against the provider;
// results are never cached across requests.
type Gate struct {
	verifier Verifier
	profiles ProfileStore
}

func NewGate(verifier Verifier, profiles ProfileStore) *Gate {
	return &Gate{verifier: verifier, profiles: profiles}
}

func (g *Gate) Authenticate(ctx context.Context, bearerToken string) (*Principal, error) {
	if bearerToken == "" {
		return nil, apperr.Unauthorized("token required")
	}

	start := time.Now()
	ident, err := g.verifier.VerifyToken(ctx, bearerToken)
	metrics.IdentityVerify.WithLabelValues(g.verifier.Name()).Observe(time.Since(start).Seconds())
	if err != nil || ident == nil || ident.UserID == "" {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	profile, err := g.profiles.LookupProfile(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, apperr.Transient("failed to load profile", err)
	}
	if !profile.Role.Valid() {
		return nil, apperr.Forbidden("profile has no valid role")
	}

	email := profile.Email
	if email == "" {
		email = ident.Email
	}
	return &Principal{ID: profile.ID, Email: email, Role: profile.Role}, nil
}

// BearerToken extracts the credential from an Authorization header value.
// A header that is present but not in "Bearer <token>" form yields a
// placeholder that no provider accepts.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "malformed"
	}
	return strings.TrimSpace(token)
}

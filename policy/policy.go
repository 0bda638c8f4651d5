package policy

import (
	"strings"

	"collabuu-backend/apperr"
	"collabuu-backend/identity"
	"collabuu-backend/models"
)

// Authorize permits the operation when the principal's role is one of allowed.
// It performs no I/O.
func Authorize(principal *identity.Principal, allowed ...models.Role) error {
	if principal == nil {
		return apperr.Unauthorized("authentication required")
	}
	for _, role := range allowed {
		if principal.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("requires one of: " + describe(allowed))
}

func describe(roles []models.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

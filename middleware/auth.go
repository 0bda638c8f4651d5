package middleware

import (
	"collabuu-backend/apperr"
	"collabuu-backend/identity"
	"collabuu-backend/models"
	"collabuu-backend/policy"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer token to a Principal on every request.
// Role changes in the profile store take effect on the next request.
func AuthMiddleware(gate *identity.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := identity.BearerToken(c.GetHeader("Authorization"))
		principal, err := gate.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Set("user_id", principal.ID)
		c.Set("user_role", string(principal.Role))
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Authorize(CurrentPrincipal(c), roles...); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated caller, or nil on public routes.
func CurrentPrincipal(c *gin.Context) *identity.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*identity.Principal)
	return p
}

func abortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{
		"error": apperr.Message(err),
		"kind":  kind,
	})
}

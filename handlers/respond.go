package handlers

import (
	"collabuu-backend/apperr"
	"collabuu-backend/logging"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error", "kind"} with the status mapped from the error kind.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindTransient {
		logging.For("http").Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.JSON(apperr.HTTPStatus(kind), gin.H{
		"error": apperr.Message(err),
		"kind":  kind,
	})
}

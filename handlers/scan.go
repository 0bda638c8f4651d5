package handlers

import (
	"net/http"

	"collabuu-backend/apperr"
	"collabuu-backend/middleware"
	"collabuu-backend/models"
	"collabuu-backend/redemption"
	"collabuu-backend/utils"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	Service *redemption.Service
}

type scanRequest struct {
	Code string `json:"code" binding:"required"`
}

// Resolve classifies a code without consuming it. Unknown codes are a normal
// answer here, not an error.
func (h *ScanHandler) Resolve(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	target, err := h.Service.Resolve(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, invalid := target.(redemption.InvalidTarget); invalid {
		c.JSON(http.StatusOK, gin.H{"valid": false, "type": target.Type()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "type": target.Type(), "target": target})
}

func (h *ScanHandler) Claim(c *gin.Context) { h.apply(c, models.ActionClaim) }

func (h *ScanHandler) Visit(c *gin.Context) { h.apply(c, models.ActionVisit) }

func (h *ScanHandler) Favorite(c *gin.Context) { h.apply(c, models.ActionFavorite) }

func (h *ScanHandler) apply(c *gin.Context, action models.RedemptionAction) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	outcome, err := h.Service.Apply(c.Request.Context(), middleware.CurrentPrincipal(c), req.Code, action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

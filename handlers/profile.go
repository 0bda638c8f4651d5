package handlers

import (
	"net/http"

	"collabuu-backend/apperr"
	"collabuu-backend/ledger"
	"collabuu-backend/middleware"
	"collabuu-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Ledger
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	balance, err := h.Ledger.CurrentBalance(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      principal.ID,
		"email":   principal.Email,
		"role":    principal.Role,
		"balance": balance,
	})
}

func (h *ProfileHandler) GetFavorites(c *gin.Context) {
	var favorites []models.Favorite
	if err := h.DB.WithContext(c.Request.Context()).
		Where("principal_id = ?", middleware.CurrentPrincipal(c).ID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		respondError(c, apperr.Transient("failed to fetch favorites", err))
		return
	}
	c.JSON(http.StatusOK, favorites)
}

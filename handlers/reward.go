package handlers

import (
	"errors"
	"net/http"

	"collabuu-backend/apperr"
	"collabuu-backend/ledger"
	"collabuu-backend/logging"
	"collabuu-backend/middleware"
	"collabuu-backend/models"
	"collabuu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Ledger
}

func (h *RewardHandler) GetRewards(c *gin.Context) {
	var rewards []models.Reward
	if err := h.DB.Where("is_available = ?", true).Order("points_required ASC").Find(&rewards).Error; err != nil {
		respondError(c, apperr.Transient("failed to fetch rewards", err))
		return
	}
	c.JSON(http.StatusOK, rewards)
}

// Redeem spends the reward's points. Balance checks happen inside the ledger
// transaction, so two concurrent redeems cannot overdraw.
func (h *RewardHandler) Redeem(c *gin.Context) {
	var req struct {
		RewardID string `json:"rewardId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	principal := middleware.CurrentPrincipal(c)
	ctx := c.Request.Context()

	var reward models.Reward
	if err := h.DB.WithContext(ctx).
		Where("id = ? AND is_available = ?", uuid.MustParse(req.RewardID), true).
		First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("reward not found"))
			return
		}
		respondError(c, apperr.Transient("failed to load reward", err))
		return
	}

	entry, err := h.Ledger.Spend(ctx, principal.ID, reward.PointsRequired, ledger.RewardReason(reward.ID))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"reward_id":    reward.ID,
		"points_spent": reward.PointsRequired,
		"entry_id":     entry.ID,
	}
	// the spend is committed; a failed balance read only drops the field
	if balance, err := h.Ledger.CurrentBalance(ctx, principal.ID); err == nil {
		resp["new_balance"] = balance
	} else {
		logging.For("rewards").Warn().Err(err).Str(logging.PRINCIPAL, principal.ID).Msg("balance read after spend failed")
	}
	c.JSON(http.StatusOK, resp)
}

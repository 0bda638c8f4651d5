package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"collabuu-backend/apperr"
	"collabuu-backend/firebase"
	"collabuu-backend/logging"
	"collabuu-backend/middleware"
	"collabuu-backend/models"
	"collabuu-backend/redemption"
	"collabuu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errCodeInUse = apperr.Conflict("code already in use")

// BusinessHandler manages the catalog that scanned codes resolve against.
type BusinessHandler struct {
	DB      *gorm.DB
	Catalog *redemption.GormCatalog
	Storage firebase.StorageClient
}

func (h *BusinessHandler) CreateDeal(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	ctx := c.Request.Context()

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		respondError(c, apperr.InvalidRequest("title is required"))
		return
	}

	reward, err := strconv.Atoi(c.DefaultPostForm("credits_reward", "0"))
	if err != nil || reward < 0 {
		respondError(c, apperr.InvalidRequest("credits_reward must be a non-negative integer"))
		return
	}

	expiry, err := parseDate(c.PostForm("expiry_date"))
	if err != nil {
		respondError(c, apperr.InvalidRequest("expiry_date must be RFC3339 or YYYY-MM-DD"))
		return
	}
	if !expiry.After(time.Now()) {
		respondError(c, apperr.InvalidRequest("expiry_date must be in the future"))
		return
	}

	code, ok := h.assignCode(c, c.PostForm("code"), "DEAL")
	if !ok {
		return
	}

	deal := models.Deal{
		BusinessID:    principal.ID,
		Title:         title,
		Description:   c.PostForm("description"),
		Code:          code,
		CreditsReward: reward,
		ExpiryDate:    expiry,
		IsActive:      true,
	}

	// image is optional
	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateFileUpload(fileHeader); err != nil {
			respondError(c, apperr.InvalidRequest(err.Error()))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, apperr.InvalidRequest("Failed to open uploaded file"))
			return
		}
		defer file.Close()

		imageURL, err := h.Storage.UploadDealImage(ctx, file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			respondError(c, apperr.Transient("image upload failed", err))
			return
		}
		deal.ImageURL = imageURL
	}

	if err := h.Catalog.Add(ctx, deal.Code, models.TargetDeal, &deal); err != nil {
		h.removeImage(ctx, deal.ImageURL)
		if errors.Is(err, redemption.ErrCodeTaken) {
			respondError(c, errCodeInUse)
			return
		}
		respondError(c, apperr.Transient("failed to create deal", err))
		return
	}

	c.JSON(http.StatusCreated, deal)
}

func (h *BusinessHandler) GetDeals(c *gin.Context) {
	var deals []models.Deal
	if err := h.DB.WithContext(c.Request.Context()).
		Where("business_id = ?", middleware.CurrentPrincipal(c).ID).
		Order("created_at DESC").
		Find(&deals).Error; err != nil {
		respondError(c, apperr.Transient("failed to fetch deals", err))
		return
	}
	c.JSON(http.StatusOK, deals)
}

// DeleteDeal deactivates the deal so its code stops resolving. Redemption
// history keeps referencing the row, so it is never hard-deleted.
func (h *BusinessHandler) DeleteDeal(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.NotFound("deal not found"))
		return
	}

	var deal models.Deal
	if err := h.DB.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, middleware.CurrentPrincipal(c).ID).
		First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("deal not found"))
			return
		}
		respondError(c, apperr.Transient("failed to load deal", err))
		return
	}

	imageURL := deal.ImageURL
	if err := h.DB.WithContext(ctx).Model(&deal).
		Updates(map[string]interface{}{"is_active": false, "image_url": ""}).Error; err != nil {
		respondError(c, apperr.Transient("failed to deactivate deal", err))
		return
	}
	h.removeImage(ctx, imageURL)

	c.JSON(http.StatusOK, gin.H{"message": "Deal deactivated"})
}

func (h *BusinessHandler) CreateVisitCode(c *gin.Context) {
	var req struct {
		VisitType string `json:"visit_type" binding:"required,oneof=checkin purchase event"`
		Code      string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	visitType, err := models.ParseVisitType(req.VisitType)
	if err != nil {
		respondError(c, apperr.InvalidRequest(err.Error()))
		return
	}

	code, ok := h.assignCode(c, req.Code, "VISIT")
	if !ok {
		return
	}

	visit := models.VisitCode{
		BusinessID: middleware.CurrentPrincipal(c).ID,
		Code:       code,
		VisitType:  visitType,
		IsActive:   true,
	}
	if !h.create(c, visit.Code, models.TargetVisit, &visit, "failed to create visit code") {
		return
	}
	c.JSON(http.StatusCreated, visit)
}

func (h *BusinessHandler) CreateFavoriteCode(c *gin.Context) {
	var req struct {
		DealID string `json:"deal_id" binding:"omitempty,uuid"`
		Code   string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	businessID := middleware.CurrentPrincipal(c).ID
	fav := models.FavoriteCode{BusinessID: businessID, IsActive: true}

	if req.DealID != "" {
		dealID := uuid.MustParse(req.DealID)
		var count int64
		if err := h.DB.WithContext(c.Request.Context()).Model(&models.Deal{}).
			Where("id = ? AND business_id = ?", dealID, businessID).
			Count(&count).Error; err != nil {
			respondError(c, apperr.Transient("failed to load deal", err))
			return
		}
		if count == 0 {
			respondError(c, apperr.NotFound("deal not found"))
			return
		}
		fav.DealID = &dealID
	}

	code, ok := h.assignCode(c, req.Code, "FAV")
	if !ok {
		return
	}
	fav.Code = code

	if !h.create(c, fav.Code, models.TargetFavorite, &fav, "failed to create favorite code") {
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (h *BusinessHandler) CreateReward(c *gin.Context) {
	var req struct {
		Title          string `json:"title" binding:"required"`
		Description    string `json:"description"`
		PointsRequired int    `json:"points_required" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	reward := models.Reward{
		BusinessID:     middleware.CurrentPrincipal(c).ID,
		Title:          req.Title,
		Description:    req.Description,
		PointsRequired: req.PointsRequired,
		IsAvailable:    true,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&reward).Error; err != nil {
		respondError(c, apperr.Transient("failed to create reward", err))
		return
	}
	c.JSON(http.StatusCreated, reward)
}

func (h *BusinessHandler) create(c *gin.Context, code string, kind models.TargetType, row interface{}, failure string) bool {
	if err := h.Catalog.Add(c.Request.Context(), code, kind, row); err != nil {
		if errors.Is(err, redemption.ErrCodeTaken) {
			respondError(c, errCodeInUse)
			return false
		}
		respondError(c, apperr.Transient(failure, err))
		return false
	}
	return true
}

// assignCode validates a business-supplied code or generates one with prefix.
// It writes the error response itself and reports false on failure.
func (h *BusinessHandler) assignCode(c *gin.Context, requested, prefix string) (string, bool) {
	ctx := c.Request.Context()

	if requested = utils.NormalizeCode(requested); requested != "" {
		if !utils.ValidCodeShape(requested) {
			respondError(c, apperr.InvalidRequest("code must be 3-64 letters, digits, '-' or '_'"))
			return "", false
		}
		inUse, err := h.Catalog.CodeInUse(ctx, requested)
		if err != nil {
			respondError(c, apperr.Transient("failed to check code", err))
			return "", false
		}
		if inUse {
			respondError(c, errCodeInUse)
			return "", false
		}
		return requested, true
	}

	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateCode(prefix)
		if err != nil {
			respondError(c, apperr.Transient("failed to generate code", err))
			return "", false
		}
		inUse, err := h.Catalog.CodeInUse(ctx, code)
		if err != nil {
			respondError(c, apperr.Transient("failed to check code", err))
			return "", false
		}
		if !inUse {
			return code, true
		}
	}
	respondError(c, apperr.Transient("failed to generate a unique code", nil))
	return "", false
}

func (h *BusinessHandler) removeImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	objectPath, err := firebase.ObjectPath(imageURL)
	if err != nil {
		return
	}
	if err := h.Storage.DeleteFile(ctx, objectPath); err != nil {
		logging.For("business").Warn().Err(err).Str("object", objectPath).Msg("failed to delete deal image")
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

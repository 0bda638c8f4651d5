package handlers

import (
	"errors"
	"net/http"
	"strings"

	"collabuu-backend/apperr"
	"collabuu-backend/models"
	"collabuu-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler is the self-hosted identity provider used when AUTH_PROVIDER=jwt.
// Tokens carry only the subject and email; the role is read from the profile
// on every request.
type AuthHandler struct {
	DB *gorm.DB
}

var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name"`
		Role     string `json:"role" binding:"omitempty,oneof=business influencer customer"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	role := models.RoleCustomer
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Profile
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, apperr.Conflict("Email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, apperr.Transient("Failed to hash password", err))
		return
	}

	profile := models.Profile{
		Email:        email,
		Name:         req.Name,
		Role:         role,
		PasswordHash: string(hashed),
	}
	if err := h.DB.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperr.Conflict("Email already registered"))
			return
		}
		respondError(c, apperr.Transient("Failed to create profile", err))
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		respondError(c, apperr.Transient("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidRequest(utils.SanitizeValidationError(err)))
		return
	}

	var profile models.Profile
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&profile).Error; err != nil {
		respondError(c, errInvalidCredentials)
		return
	}

	// profiles provisioned by an external provider have no password
	if profile.PasswordHash == "" {
		respondError(c, errInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		respondError(c, apperr.Transient("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Deal struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID    string    `gorm:"not null;index" json:"business_id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	Code          string    `gorm:"uniqueIndex;not null" json:"code"`
	CreditsReward int       `gorm:"not null;default:0" json:"credits_reward"`
	ExpiryDate    time.Time `gorm:"not null" json:"expiry_date"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ExpiredAt reports whether the deal can no longer be redeemed at now.
func (d *Deal) ExpiredAt(now time.Time) bool {
	return !now.Before(d.ExpiryDate)
}

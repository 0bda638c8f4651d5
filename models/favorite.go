package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteCode is a scannable link that adds a business (and optionally one of
// its deals) to the scanner's favorites.
type FavoriteCode struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID string     `gorm:"not null;index" json:"business_id"`
	DealID     *uuid.UUID `gorm:"type:uuid" json:"deal_id,omitempty"`
	Code       string     `gorm:"uniqueIndex;not null" json:"code"`
	IsActive   bool       `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (f *FavoriteCode) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Favorite struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PrincipalID string     `gorm:"not null;uniqueIndex:ux_favorites_principal_business" json:"principal_id"`
	BusinessID  string     `gorm:"not null;uniqueIndex:ux_favorites_principal_business" json:"business_id"`
	DealID      *uuid.UUID `gorm:"type:uuid" json:"deal_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

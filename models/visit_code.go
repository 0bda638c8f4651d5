package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitType string

const (
	VisitTypeCheckin  VisitType = "checkin"
	VisitTypePurchase VisitType = "purchase"
	VisitTypeEvent    VisitType = "event"
)

var AllVisitTypes = []VisitType{VisitTypeCheckin, VisitTypePurchase, VisitTypeEvent}

func ParseVisitType(s string) (VisitType, error) {
	switch v := VisitType(s); v {
	case VisitTypeCheckin, VisitTypePurchase, VisitTypeEvent:
		return v, nil
	}
	return "", fmt.Errorf("unknown visit type %q", s)
}

type VisitCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID string    `gorm:"not null;index" json:"business_id"`
	Code       string    `gorm:"uniqueIndex;not null" json:"code"`
	VisitType  VisitType `gorm:"not null" json:"visit_type"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (v *VisitCode) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

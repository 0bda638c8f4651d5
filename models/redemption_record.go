package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedemptionAction string

const (
	ActionClaim    RedemptionAction = "claim"
	ActionVisit    RedemptionAction = "visit"
	ActionFavorite RedemptionAction = "favorite"
)

func (a RedemptionAction) Valid() bool {
	switch a {
	case ActionClaim, ActionVisit, ActionFavorite:
		return true
	}
	return false
}

// OncePerPrincipal reports whether a completed action is covered by the
// (code, principal) uniqueness index.
func (a RedemptionAction) OncePerPrincipal() bool {
	return a == ActionClaim || a == ActionVisit
}

type RedemptionStatus string

const (
	RedemptionCompleted RedemptionStatus = "completed"
	RedemptionRejected  RedemptionStatus = "rejected"
)

type TargetType string

const (
	TargetDeal     TargetType = "deal"
	TargetVisit    TargetType = "visit"
	TargetFavorite TargetType = "favorite"
)

// RedemptionRecord is insert-only. At most one completed claim/visit row exists
// per (code, principal_id); the database enforces it with a partial unique index.
type RedemptionRecord struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Code          string           `gorm:"not null;index" json:"code"`
	PrincipalID   string           `gorm:"not null;index" json:"principal_id"`
	TargetType    TargetType       `gorm:"not null" json:"target_type"`
	BusinessID    string           `gorm:"not null" json:"business_id"`
	DealID        *uuid.UUID       `gorm:"type:uuid" json:"deal_id,omitempty"`
	VisitType     VisitType        `json:"visit_type,omitempty"`
	Action        RedemptionAction `gorm:"not null" json:"action"`
	PointsGranted int              `gorm:"not null;default:0" json:"points_granted"`
	Status        RedemptionStatus `gorm:"not null" json:"status"`
	RejectReason  string           `json:"reject_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (r *RedemptionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

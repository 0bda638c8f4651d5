package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry is append-only; a principal's balance is the sum of its deltas.
type LedgerEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PrincipalID string    `gorm:"not null;index" json:"principal_id"`
	Delta       int       `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"not null" json:"reason"` // "redemption:<id>" or "reward:<id>"
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

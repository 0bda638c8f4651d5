package models

import "time"

// CatalogCode reserves a scannable code across deals, visit codes and
// favorite codes. Its primary key is what keeps one code from living in two
// catalog tables at once.
type CatalogCode struct {
	Code       string     `gorm:"primaryKey" json:"code"`
	TargetType TargetType `gorm:"not null" json:"target_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

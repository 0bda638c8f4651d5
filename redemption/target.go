package redemption

import (
	"time"

	"collabuu-backend/models"

	"github.com/google/uuid"
)

// TargetInvalid is the type of a code that matches no live catalog entry.
const TargetInvalid models.TargetType = "invalid"

// Target is what a redemption code resolves to. The concrete types are
// *DealTarget, *VisitTarget, *FavoriteTarget and InvalidTarget.
type Target interface {
	Type() models.TargetType
	// Permits reports whether action is a legal terminal action for the target.
	Permits(action models.RedemptionAction) bool
	stamp(r *models.RedemptionRecord)
}

type DealTarget struct {
	DealID        uuid.UUID `json:"deal_id"`
	BusinessID    string    `json:"business_id"`
	Title         string    `json:"title"`
	CreditsReward int       `json:"credits_reward"`
	ExpiryDate    time.Time `json:"expiry_date"`
}

func (t *DealTarget) Type() models.TargetType { return models.TargetDeal }

func (t *DealTarget) Permits(action models.RedemptionAction) bool {
	return action == models.ActionClaim
}

func (t *DealTarget) stamp(r *models.RedemptionRecord) {
	r.TargetType = models.TargetDeal
	r.BusinessID = t.BusinessID
	id := t.DealID
	r.DealID = &id
}

type VisitTarget struct {
	BusinessID string           `json:"business_id"`
	VisitType  models.VisitType `json:"visit_type"`
}

func (t *VisitTarget) Type() models.TargetType { return models.TargetVisit }

func (t *VisitTarget) Permits(action models.RedemptionAction) bool {
	return action == models.ActionVisit
}

func (t *VisitTarget) stamp(r *models.RedemptionRecord) {
	r.TargetType = models.TargetVisit
	r.BusinessID = t.BusinessID
	r.VisitType = t.VisitType
}

type FavoriteTarget struct {
	BusinessID string     `json:"business_id"`
	DealID     *uuid.UUID `json:"deal_id,omitempty"`
}

func (t *FavoriteTarget) Type() models.TargetType { return models.TargetFavorite }

func (t *FavoriteTarget) Permits(action models.RedemptionAction) bool {
	return action == models.ActionFavorite
}

func (t *FavoriteTarget) stamp(r *models.RedemptionRecord) {
	r.TargetType = models.TargetFavorite
	r.BusinessID = t.BusinessID
	r.DealID = t.DealID
}

// InvalidTarget is the resolution of unknown, malformed, inactive or expired codes.
type InvalidTarget struct{}

func (InvalidTarget) Type() models.TargetType { return TargetInvalid }

func (InvalidTarget) Permits(models.RedemptionAction) bool { return false }

func (InvalidTarget) stamp(*models.RedemptionRecord) {}

package redemption

import (
	"context"
	"time"

	"collabuu-backend/apperr"
	"collabuu-backend/models"
	"collabuu-backend/utils"
)

// Catalog is the campaign/deal catalog the resolver reads from. Each lookup
// returns (nil, nil) when no row carries the code.
type Catalog interface {
	LookupDealByCode(ctx context.Context, code string) (*models.Deal, error)
	LookupVisitCodeByCode(ctx context.Context, code string) (*models.VisitCode, error)
	LookupFavoriteCodeByCode(ctx context.Context, code string) (*models.FavoriteCode, error)
}

// Resolver classifies codes. It only reads; resolving a code any number of
// times never consumes it.
type Resolver struct {
	catalog Catalog
	now     func() time.Time
}

func NewResolver(catalog Catalog, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{catalog: catalog, now: now}
}

// Resolve checks deals, then visit codes, then favorite codes. Expiry is
// judged against the clock at resolution time, so a code scanned earlier
// cannot be held past its deal's expiry. Lookup failures are transient.
func (r *Resolver) Resolve(ctx context.Context, code string) (Target, error) {
	code = utils.NormalizeCode(code)
	if !utils.ValidCodeShape(code) {
		return InvalidTarget{}, nil
	}

	deal, err := r.catalog.LookupDealByCode(ctx, code)
	if err != nil {
		return nil, apperr.Transient("failed to look up deal", err)
	}
	if deal != nil && deal.IsActive && !deal.ExpiredAt(r.now()) {
		return &DealTarget{
			DealID:        deal.ID,
			BusinessID:    deal.BusinessID,
			Title:         deal.Title,
			CreditsReward: deal.CreditsReward,
			ExpiryDate:    deal.ExpiryDate,
		}, nil
	}

	visit, err := r.catalog.LookupVisitCodeByCode(ctx, code)
	if err != nil {
		return nil, apperr.Transient("failed to look up visit code", err)
	}
	if visit != nil && visit.IsActive {
		return &VisitTarget{BusinessID: visit.BusinessID, VisitType: visit.VisitType}, nil
	}

	fav, err := r.catalog.LookupFavoriteCodeByCode(ctx, code)
	if err != nil {
		return nil, apperr.Transient("failed to look up favorite code", err)
	}
	if fav != nil && fav.IsActive {
		return &FavoriteTarget{BusinessID: fav.BusinessID, DealID: fav.DealID}, nil
	}

	return InvalidTarget{}, nil
}

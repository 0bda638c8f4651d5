package redemption

import (
	"context"
	"errors"
	"strings"

	"collabuu-backend/apperr"
	"collabuu-backend/identity"
	"collabuu-backend/ledger"
	"collabuu-backend/logging"
	"collabuu-backend/metrics"
	"collabuu-backend/models"
	"collabuu-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome describes a completed redemption.
type Outcome struct {
	RecordID      uuid.UUID               `json:"record_id"`
	Action        models.RedemptionAction `json:"action"`
	TargetType    models.TargetType       `json:"target_type"`
	BusinessID    string                  `json:"business_id"`
	PointsGranted int                     `json:"points_granted"`
	NewBalance    int                     `json:"new_balance"`
}

// Service applies terminal actions to resolved codes. A completed
// RedemptionRecord and its ledger grant are committed together or not at all.
type Service struct {
	db          *gorm.DB
	resolver    *Resolver
	ledger      *ledger.Ledger
	visitPoints map[models.VisitType]int
	log         *zerolog.Logger
}

func NewService(db *gorm.DB, resolver *Resolver, l *ledger.Ledger, visitPoints map[models.VisitType]int) *Service {
	return &Service{
		db:          db,
		resolver:    resolver,
		ledger:      l,
		visitPoints: visitPoints,
		log:         logging.For("redemption"),
	}
}

func (s *Service) Resolve(ctx context.Context, code string) (Target, error) {
	return s.resolver.Resolve(ctx, code)
}

// Apply moves a code from resolved to completed or rejected for principal.
func (s *Service) Apply(ctx context.Context, principal *identity.Principal, code string, action models.RedemptionAction) (*Outcome, error) {
	if principal == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	if !action.Valid() {
		return nil, apperr.InvalidAction("unknown action " + string(action))
	}
	code = utils.NormalizeCode(code)

	outcome, err := s.apply(ctx, principal, code, action)
	if err != nil {
		kind := apperr.KindOf(err)
		metrics.Redemptions.WithLabelValues(string(action), string(kind)).Inc()
		ev := s.log.Warn()
		if kind == apperr.KindTransient {
			ev = s.log.Error().Err(err)
		}
		ev.Str(logging.PRINCIPAL, principal.ID).
			Str(logging.CODE, code).
			Str(logging.ACTION, string(action)).
			Str(logging.KIND, string(kind)).
			Msg("redemption rejected")
		return nil, err
	}

	metrics.Redemptions.WithLabelValues(string(action), string(models.RedemptionCompleted)).Inc()
	if outcome.PointsGranted > 0 {
		metrics.LedgerEntries.WithLabelValues("grant").Inc()
	}
	s.log.Info().
		Str(logging.PRINCIPAL, principal.ID).
		Str(logging.CODE, code).
		Str(logging.ACTION, string(action)).
		Int("points", outcome.PointsGranted).
		Int("balance", outcome.NewBalance).
		Msg("redemption completed")
	return outcome, nil
}

func (s *Service) apply(ctx context.Context, principal *identity.Principal, code string, action models.RedemptionAction) (*Outcome, error) {
	target, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, invalid := target.(InvalidTarget); invalid {
		return nil, apperr.NotFound("code not recognized or expired")
	}

	record := &models.RedemptionRecord{
		Code:        code,
		PrincipalID: principal.ID,
		Action:      action,
	}
	target.stamp(record)

	done, err := s.completed(ctx, code, principal.ID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, s.reject(ctx, record, apperr.AlreadyRedeemed("code already redeemed"))
	}

	if !target.Permits(action) {
		return nil, s.reject(ctx, record, apperr.InvalidAction(
			"action "+string(action)+" does not apply to a "+string(target.Type())+" code"))
	}

	record.Status = models.RedemptionCompleted
	record.PointsGranted = s.pointsFor(target)

	var balance int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if ft, ok := target.(*FavoriteTarget); ok {
			fav := &models.Favorite{PrincipalID: principal.ID, BusinessID: ft.BusinessID, DealID: ft.DealID}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "principal_id"}, {Name: "business_id"}},
				DoNothing: true,
			}).Create(fav).Error; err != nil {
				return err
			}
		}
		if _, err := ledger.AppendGrant(tx, principal.ID, record.PointsGranted, ledger.RedemptionReason(record.ID)); err != nil {
			return err
		}
		var err error
		balance, err = ledger.BalanceTx(tx, principal.ID)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			// lost the race against a concurrent attempt by the same principal
			return nil, s.reject(ctx, record, apperr.AlreadyRedeemed("code already redeemed"))
		}
		var typed *apperr.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, apperr.Transient("failed to record redemption", err)
	}

	return &Outcome{
		RecordID:      record.ID,
		Action:        action,
		TargetType:    record.TargetType,
		BusinessID:    record.BusinessID,
		PointsGranted: record.PointsGranted,
		NewBalance:    balance,
	}, nil
}

func (s *Service) pointsFor(target Target) int {
	switch t := target.(type) {
	case *DealTarget:
		return t.CreditsReward
	case *VisitTarget:
		return s.visitPoints[t.VisitType]
	default:
		return 0
	}
}

// completed reports whether principal already holds a completed once-only
// redemption of code. Favorites never count.
func (s *Service) completed(ctx context.Context, code, principalID string) (bool, error) {
	var once []models.RedemptionAction
	for _, a := range []models.RedemptionAction{models.ActionClaim, models.ActionVisit, models.ActionFavorite} {
		if a.OncePerPrincipal() {
			once = append(once, a)
		}
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.RedemptionRecord{}).
		Where("code = ? AND principal_id = ? AND status = ? AND action IN ?",
			code, principalID, models.RedemptionCompleted, once).
		Count(&count).Error
	if err != nil {
		return false, apperr.Transient("failed to check redemption history", err)
	}
	return count > 0, nil
}

// reject persists a rejected attempt and returns cause. A failure to write
// the audit row is logged and does not mask cause.
func (s *Service) reject(ctx context.Context, record *models.RedemptionRecord, cause *apperr.Error) error {
	rejected := *record
	rejected.ID = uuid.Nil
	rejected.Status = models.RedemptionRejected
	rejected.PointsGranted = 0
	rejected.RejectReason = string(cause.Kind)
	if err := s.db.WithContext(ctx).Create(&rejected).Error; err != nil {
		s.log.Warn().Err(err).
			Str(logging.CODE, record.Code).
			Str(logging.PRINCIPAL, record.PrincipalID).
			Msg("failed to persist rejected redemption")
	}
	return cause
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

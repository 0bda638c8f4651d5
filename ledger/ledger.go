package ledger

import (
	"context"
	"errors"
	"fmt"

	"collabuu-backend/apperr"
	"collabuu-backend/metrics"
	"collabuu-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger derives balances from the append-only ledger_entries table. Entries
// are never updated or deleted.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func RedemptionReason(recordID fmt.Stringer) string { return "redemption:" + recordID.String() }

func RewardReason(rewardID fmt.Stringer) string { return "reward:" + rewardID.String() }

// CurrentBalance sums every committed entry for the principal.
func (l *Ledger) CurrentBalance(ctx context.Context, principalID string) (int, error) {
	balance, err := balanceOf(l.db.WithContext(ctx), principalID)
	if err != nil {
		return 0, apperr.Transient("failed to read balance", err)
	}
	return balance, nil
}

func (l *Ledger) Entries(ctx context.Context, principalID string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.LedgerEntry
	if err := l.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperr.Transient("failed to read ledger entries", err)
	}
	return entries, nil
}

// Grant appends a positive entry. A zero amount is a no-op and returns a nil entry.
func (l *Ledger) Grant(ctx context.Context, principalID string, amount int, reason string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = AppendGrant(tx, principalID, amount, reason)
		return err
	})
	if err != nil {
		return nil, wrapPersistence(err, "failed to record grant")
	}
	if entry != nil {
		metrics.LedgerEntries.WithLabelValues("grant").Inc()
	}
	return entry, nil
}

// Spend appends a negative entry when the balance covers amount. The
// principal's profile row is locked for the duration of the transaction so
// concurrent spends by one principal serialize and the balance never goes
// negative.
func (l *Ledger) Spend(ctx context.Context, principalID string, amount int, reason string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apperr.InvalidRequest("spend amount must be positive")
	}

	var entry *models.LedgerEntry
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", principalID).
			First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("profile not found")
			}
			return err
		}

		balance, err := balanceOf(tx, principalID)
		if err != nil {
			return err
		}
		if balance < amount {
			return apperr.InsufficientBalance(fmt.Sprintf("balance %d is below the required %d points", balance, amount))
		}

		entry = &models.LedgerEntry{PrincipalID: principalID, Delta: -amount, Reason: reason}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, wrapPersistence(err, "failed to record spend")
	}

	metrics.LedgerEntries.WithLabelValues("spend").Inc()
	return entry, nil
}

// AppendGrant writes a grant inside the caller's transaction so it commits or
// rolls back together with the caller's other writes.
func AppendGrant(tx *gorm.DB, principalID string, amount int, reason string) (*models.LedgerEntry, error) {
	if amount < 0 {
		return nil, apperr.InvalidRequest("grant amount must not be negative")
	}
	if amount == 0 {
		return nil, nil
	}

	entry := &models.LedgerEntry{PrincipalID: principalID, Delta: amount, Reason: reason}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// BalanceTx reads the balance inside the caller's transaction, including
// entries the transaction has appended but not yet committed.
func BalanceTx(tx *gorm.DB, principalID string) (int, error) {
	return balanceOf(tx, principalID)
}

func balanceOf(db *gorm.DB, principalID string) (int, error) {
	var total int64
	err := db.Model(&models.LedgerEntry{}).
		Where("principal_id = ?", principalID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&total).Error
	return int(total), err
}

// wrapPersistence keeps typed errors and marks everything else transient.
func wrapPersistence(err error, message string) error {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return typed
	}
	return apperr.Transient(message, err)
}

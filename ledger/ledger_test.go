package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"collabuu-backend/apperr"
	"collabuu-backend/database"
	"collabuu-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T) (*Ledger, *gorm.DB, string) {
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	profile := models.Profile{Email: "ledger@test.com", Role: models.RoleCustomer}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatal(err)
	}
	return New(db), db, profile.ID
}

func mustBalance(t *testing.T, l *Ledger, id string) int {
	t.Helper()
	b, err := l.CurrentBalance(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBalanceConservation(t *testing.T) {
	l, _, id := setupLedger(t)
	ctx := context.Background()

	grants := []int{25, 30, 0, 10}
	spends := []int{20, 15}
	expected := 0
	for _, g := range grants {
		if _, err := l.Grant(ctx, id, g, "test"); err != nil {
			t.Fatal(err)
		}
		expected += g
	}
	for _, s := range spends {
		if _, err := l.Spend(ctx, id, s, "test"); err != nil {
			t.Fatal(err)
		}
		expected -= s
	}

	if got := mustBalance(t, l, id); got != expected {
		t.Errorf("expected balance %d, got %d", expected, got)
	}
}

func TestSpendInsufficientBalance(t *testing.T) {
	l, db, id := setupLedger(t)
	ctx := context.Background()
	l.Grant(ctx, id, 25, "redemption:x")

	_, err := l.Spend(ctx, id, 50, RewardReason(uuid.New()))
	if !apperr.Is(err, apperr.KindInsufficientBalance) {
		t.Fatalf("expected insufficient_balance, got %v", err)
	}

	var count int64
	db.Model(&models.LedgerEntry{}).Where("delta < 0").Count(&count)
	if count != 0 {
		t.Errorf("failed spend must not append an entry, found %d", count)
	}
	if got := mustBalance(t, l, id); got != 25 {
		t.Errorf("expected balance 25, got %d", got)
	}
}

func TestSpendExactBalance(t *testing.T) {
	l, _, id := setupLedger(t)
	ctx := context.Background()
	l.Grant(ctx, id, 40, "test")

	entry, err := l.Spend(ctx, id, 40, "reward:r1")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Delta != -40 || entry.Reason != "reward:r1" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if got := mustBalance(t, l, id); got != 0 {
		t.Errorf("expected zero balance, got %d", got)
	}
}

func TestSpendRejectsNonPositiveAmount(t *testing.T) {
	l, _, id := setupLedger(t)
	for _, amount := range []int{0, -5} {
		if _, err := l.Spend(context.Background(), id, amount, "x"); !apperr.Is(err, apperr.KindInvalidRequest) {
			t.Errorf("amount %d: expected invalid_request, got %v", amount, err)
		}
	}
}

func TestSpendUnknownPrincipal(t *testing.T) {
	l, _, _ := setupLedger(t)
	if _, err := l.Spend(context.Background(), "nobody", 1, "x"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestGrantZeroIsNoop(t *testing.T) {
	l, db, id := setupLedger(t)
	entry, err := l.Grant(context.Background(), id, 0, "favorite")
	if err != nil || entry != nil {
		t.Fatalf("expected nil entry and nil error, got %v, %v", entry, err)
	}
	var count int64
	db.Model(&models.LedgerEntry{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no entries, got %d", count)
	}
}

func TestGrantNegativeRejected(t *testing.T) {
	l, _, id := setupLedger(t)
	if _, err := l.Grant(context.Background(), id, -1, "x"); !apperr.Is(err, apperr.KindInvalidRequest) {
		t.Errorf("expected invalid_request, got %v", err)
	}
}

func TestConcurrentSpendsNeverOverdraw(t *testing.T) {
	l, _, id := setupLedger(t)
	ctx := context.Background()
	l.Grant(ctx, id, 100, "seed")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, insufficient := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Spend(ctx, id, 30, "reward:concurrent")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperr.Is(err, apperr.KindInsufficientBalance):
				insufficient++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 3 || insufficient != 7 {
		t.Errorf("expected 3 successes and 7 rejections, got %d and %d", succeeded, insufficient)
	}
	if got := mustBalance(t, l, id); got != 10 {
		t.Errorf("expected balance 10, got %d", got)
	}
}

func TestEntriesNewestFirst(t *testing.T) {
	l, db, id := setupLedger(t)
	ctx := context.Background()
	l.Grant(ctx, id, 5, "first")
	l.Grant(ctx, id, 7, "second")
	// Force a deterministic order regardless of timestamp resolution.
	db.Model(&models.LedgerEntry{}).Where("reason = ?", "first").Update("created_at", time.Now().Add(-time.Hour))

	entries, err := l.Entries(ctx, id, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Reason != "second" {
		t.Errorf("expected newest entry first, got %+v", entries)
	}
}

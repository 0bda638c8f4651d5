package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"collabuu-backend/models"

	"github.com/google/uuid"
)

func TestGetRewardsListsAvailable(t *testing.T) {
	db := freshDB()
	router := setupRewardRouter(db)
	seedReward(db, "Free coffee", 50)
	hidden := seedReward(db, "Retired", 10)
	db.Model(&hidden).Update("is_available", false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/rewards", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if rewards := parseResponseArray(w); len(rewards) != 1 {
		t.Errorf("expected 1 available reward, got %d", len(rewards))
	}
}

func TestRedeemRewardBalanceScenario(t *testing.T) {
	db := freshDB()
	router := setupRewardRouter(db)
	customer, token := seedProfile(db, "p1@test.com", models.RoleCustomer)
	reward := seedReward(db, "R1", 50)
	grantPoints(db, customer.ID, 25)

	body := map[string]string{"rewardId": reward.ID.String()}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/rewards/redeem", body, token))
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["kind"] != "insufficient_balance" {
		t.Errorf("expected kind insufficient_balance, got %v", resp["kind"])
	}

	grantPoints(db, customer.ID, 30)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/rewards/redeem", body, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["new_balance"] != float64(5) {
		t.Errorf("expected new balance 5, got %v", resp["new_balance"])
	}
	if resp["points_spent"] != float64(50) {
		t.Errorf("expected 50 points spent, got %v", resp["points_spent"])
	}
}

func TestRedeemUnknownReward(t *testing.T) {
	db := freshDB()
	router := setupRewardRouter(db)
	_, token := seedProfile(db, "p1@test.com", models.RoleCustomer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/rewards/redeem", map[string]string{"rewardId": uuid.New().String()}, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRedeemInvalidRewardID(t *testing.T) {
	db := freshDB()
	router := setupRewardRouter(db)
	_, token := seedProfile(db, "p1@test.com", models.RoleCustomer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/rewards/redeem", map[string]string{"rewardId": "R1"}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"collabuu-backend/models"
)

func TestGetMe(t *testing.T) {
	db := freshDB()
	router := setupProfileRouter(db)
	profile, token := seedProfile(db, "me@test.com", models.RoleInfluencer)
	grantPoints(db, profile.ID, 40)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/me", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["role"] != "influencer" || resp["balance"] != float64(40) {
		t.Errorf("unexpected profile %v", resp)
	}
}

func TestLedgerBalanceAndEntries(t *testing.T) {
	db := freshDB()
	router := setupProfileRouter(db)
	profile, token := seedProfile(db, "me@test.com", models.RoleCustomer)
	grantPoints(db, profile.ID, 10)
	grantPoints(db, profile.ID, 15)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/ledger/balance", nil, token))
	if resp := parseResponse(w); resp["balance"] != float64(25) {
		t.Errorf("expected balance 25, got %v", resp["balance"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/ledger/entries?limit=1", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if entries := parseResponseArray(w); len(entries) != 1 {
		t.Errorf("expected 1 entry with limit=1, got %d", len(entries))
	}
}

func TestGetFavoritesOnlyOwn(t *testing.T) {
	db := freshDB()
	router := setupProfileRouter(db)
	me, token := seedProfile(db, "me@test.com", models.RoleCustomer)
	other, _ := seedProfile(db, "other@test.com", models.RoleCustomer)
	db.Create(&models.Favorite{PrincipalID: me.ID, BusinessID: "b1"})
	db.Create(&models.Favorite{PrincipalID: other.ID, BusinessID: "b1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/favorites", nil, token))
	if favorites := parseResponseArray(w); len(favorites) != 1 {
		t.Errorf("expected 1 favorite, got %d", len(favorites))
	}
}

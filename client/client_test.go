package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"collabuu-backend/apperr"
)

func newServer(t *testing.T, status int, body interface{}) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestClaimSuccess(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, map[string]interface{}{
		"action": "claim", "points_granted": 25, "new_balance": 25,
	})

	out, err := New(srv.URL, "tok").Claim(context.Background(), "DEAL-100")
	if err != nil {
		t.Fatal(err)
	}
	if out.PointsGranted != 25 || out.NewBalance != 25 {
		t.Errorf("unexpected outcome %+v", out)
	}
	if req.URL.Path != "/api/scan/claim" {
		t.Errorf("unexpected path %s", req.URL.Path)
	}
	if req.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("missing bearer token, got %q", req.Header.Get("Authorization"))
	}
}

func TestErrorKindDecoded(t *testing.T) {
	srv, _ := newServer(t, http.StatusConflict, map[string]string{
		"error": "code already redeemed", "kind": "already_redeemed",
	})

	_, err := New(srv.URL, "tok").Claim(context.Background(), "DEAL-100")
	if !apperr.Is(err, apperr.KindAlreadyRedeemed) {
		t.Fatalf("expected already_redeemed, got %v", err)
	}
	if apperr.Message(err) != "code already redeemed" {
		t.Errorf("unexpected message %q", apperr.Message(err))
	}
}

func TestErrorKindFromStatus(t *testing.T) {
	srv, _ := newServer(t, http.StatusPaymentRequired, "not json object")

	_, err := New(srv.URL, "tok").RedeemReward(context.Background(), "r1")
	if !apperr.Is(err, apperr.KindInsufficientBalance) {
		t.Fatalf("expected insufficient_balance, got %v", err)
	}
}

func TestUnknownKindFallsBackToStatus(t *testing.T) {
	srv, _ := newServer(t, http.StatusForbidden, map[string]string{
		"error": "nope", "kind": "teapot",
	})

	_, err := New(srv.URL, "tok").Visit(context.Background(), "VISIT-1")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if apperr.Message(err) != "nope" {
		t.Errorf("unexpected message %q", apperr.Message(err))
	}
}

func TestConflictKindIsNotAlreadyRedeemed(t *testing.T) {
	srv, _ := newServer(t, http.StatusConflict, map[string]string{
		"error": "code already in use", "kind": "conflict",
	})

	_, err := New(srv.URL, "tok").Claim(context.Background(), "DEAL-100")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, nil)
	srv.Close()

	_, err := New(srv.URL, "").Resolve(context.Background(), "DEAL-100")
	if !apperr.Is(err, apperr.KindTransient) {
		t.Fatalf("expected transient, got %v", err)
	}
}

type stubAPI struct {
	API
	resolveErr error
	claimErr   error
}

func (s *stubAPI) Resolve(ctx context.Context, code string) (*Resolution, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return &Resolution{Valid: true, Type: "deal"}, nil
}

func (s *stubAPI) Claim(ctx context.Context, code string) (*Outcome, error) {
	return nil, s.claimErr
}

var samples = map[string]Resolution{
	"DEAL-100": {Valid: true, Type: "deal"},
}

func TestFallbackOnTransientResolve(t *testing.T) {
	api := WithSampleFallback(&stubAPI{resolveErr: apperr.Transient("timeout", nil)}, samples)

	res, err := api.Resolve(context.Background(), " DEAL-100 ")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Sample || res.Type != "deal" {
		t.Errorf("expected sample deal, got %+v", res)
	}
}

func TestFallbackWithoutSample(t *testing.T) {
	api := WithSampleFallback(&stubAPI{resolveErr: apperr.Transient("timeout", nil)}, samples)

	if _, err := api.Resolve(context.Background(), "OTHER-1"); !apperr.Is(err, apperr.KindTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestFallbackKeepsTerminalErrors(t *testing.T) {
	api := WithSampleFallback(&stubAPI{resolveErr: apperr.Unauthorized("token required")}, samples)

	if _, err := api.Resolve(context.Background(), "DEAL-100"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestFallbackNeverCoversWrites(t *testing.T) {
	api := WithSampleFallback(&stubAPI{claimErr: apperr.Transient("timeout", nil)}, samples)

	if _, err := api.Claim(context.Background(), "DEAL-100"); !apperr.Is(err, apperr.KindTransient) {
		t.Fatalf("expected transient error from claim, got %v", err)
	}
}

func TestFallbackPassesSuccess(t *testing.T) {
	api := WithSampleFallback(&stubAPI{}, samples)

	res, err := api.Resolve(context.Background(), "DEAL-100")
	if err != nil {
		t.Fatal(err)
	}
	if res.Sample {
		t.Error("live resolution must not be marked as sample")
	}
}

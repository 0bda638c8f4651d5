package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindAlreadyRedeemed, http.StatusConflict},
		{KindInvalidAction, http.StatusUnprocessableEntity},
		{KindInsufficientBalance, http.StatusPaymentRequired},
		{KindInvalidRequest, http.StatusBadRequest},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindTransient, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		if got := HTTPStatus(tc.kind); got != tc.expected {
			t.Errorf("HTTPStatus(%s): expected %d, got %d", tc.kind, tc.expected, got)
		}
		if got := FromStatus(tc.expected); got != tc.kind {
			t.Errorf("FromStatus(%d): expected %s, got %s", tc.expected, tc.kind, got)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("apply: %w", AlreadyRedeemed("code already redeemed"))
	if KindOf(err) != KindAlreadyRedeemed {
		t.Fatalf("expected already_redeemed, got %s", KindOf(err))
	}
	if !Is(err, KindAlreadyRedeemed) {
		t.Error("Is should match wrapped kind")
	}
}

func TestKindOfPlainErrorIsTransient(t *testing.T) {
	if KindOf(errors.New("connection reset")) != KindTransient {
		t.Error("untyped errors should classify as transient")
	}
	if Is(nil, KindTransient) {
		t.Error("nil error should never match a kind")
	}
}

func TestTransientUnwrapsCause(t *testing.T) {
	cause := errors.New("db down")
	err := Transient("failed to read balance", cause)
	if !errors.Is(err, cause) {
		t.Error("transient error should unwrap to its cause")
	}
	if !err.Retryable() {
		t.Error("transient error should be retryable")
	}
	if Message(err) != "failed to read balance" {
		t.Errorf("unexpected message %q", Message(err))
	}
	if NotFound("x").Retryable() {
		t.Error("not_found should not be retryable")
	}
}

func TestConflictSharesStatusButNotKind(t *testing.T) {
	if HTTPStatus(KindConflict) != http.StatusConflict {
		t.Errorf("conflict should map to 409, got %d", HTTPStatus(KindConflict))
	}
	if FromStatus(http.StatusConflict) != KindAlreadyRedeemed {
		t.Error("a bare 409 should still decode as already_redeemed")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range allKinds {
		got, ok := ParseKind(string(k))
		if !ok || got != k {
			t.Errorf("ParseKind(%s) = %s, %v", k, got, ok)
		}
	}
	for _, s := range []string{"", "teapot", "Already_Redeemed"} {
		if _, ok := ParseKind(s); ok {
			t.Errorf("ParseKind(%q) should be rejected", s)
		}
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRedemptionCounter(t *testing.T) {
	before := testutil.ToFloat64(Redemptions.WithLabelValues("claim", "completed"))
	Redemptions.WithLabelValues("claim", "completed").Inc()
	after := testutil.ToFloat64(Redemptions.WithLabelValues("claim", "completed"))
	if after-before != 1 {
		t.Errorf("expected counter to advance by 1, got %v", after-before)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	LedgerEntries.WithLabelValues("grant").Inc()

	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "collabuu_ledger_entries_total") {
		t.Error("expected ledger counter in output")
	}
}

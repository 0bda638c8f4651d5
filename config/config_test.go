package config

import (
	"os"
	"testing"
	"time"

	"collabuu-backend/models"
)

func TestLoadEnv(t *testing.T) {
	// LoadEnv returns nil when no .env file exists
	err := LoadEnv()
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvAllSet(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("DATABASE_URL")

	err := ValidateEnv()
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvMissingJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("DATABASE_URL")

	err := ValidateEnv()
	if err == nil {
		t.Error("expected error for missing JWT_SECRET")
	}
}

func TestValidateEnvFirebaseDoesNotNeedJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Setenv("DATABASE_URL", "test-db-url")
	os.Setenv("AUTH_PROVIDER", "firebase")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("AUTH_PROVIDER")

	if err := ValidateEnv(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvUnknownProvider(t *testing.T) {
	os.Setenv("DATABASE_URL", "test-db-url")
	os.Setenv("AUTH_PROVIDER", "ldap")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("AUTH_PROVIDER")

	if err := ValidateEnv(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestValidateEnvMissingDatabaseURL(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("JWT_SECRET")

	err := ValidateEnv()
	if err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestValidateEnvBadVisitPoints(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DATABASE_URL", "test-db-url")
	os.Setenv("VISIT_POINTS", "checkin=ten")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("VISIT_POINTS")

	if err := ValidateEnv(); err == nil {
		t.Error("expected error for malformed VISIT_POINTS")
	}
}

func TestGetEnvExisting(t *testing.T) {
	os.Setenv("TEST_GET_ENV_KEY", "test-value")
	defer os.Unsetenv("TEST_GET_ENV_KEY")

	result := GetEnv("TEST_GET_ENV_KEY", "default")
	if result != "test-value" {
		t.Errorf("expected 'test-value', got '%s'", result)
	}
}

func TestGetEnvMissing(t *testing.T) {
	os.Unsetenv("TEST_GET_ENV_MISSING")
	result := GetEnv("TEST_GET_ENV_MISSING", "fallback")
	if result != "fallback" {
		t.Errorf("expected 'fallback', got '%s'", result)
	}
}

func TestGetIntAndDuration(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	os.Setenv("TEST_DURATION", "90s")
	defer os.Unsetenv("TEST_INT")
	defer os.Unsetenv("TEST_DURATION")

	if GetInt("TEST_INT", 1) != 42 {
		t.Error("expected 42")
	}
	if GetInt("TEST_INT_MISSING", 7) != 7 {
		t.Error("expected default 7")
	}
	if GetDuration("TEST_DURATION", time.Second) != 90*time.Second {
		t.Error("expected 90s")
	}
}

func TestAllowedOrigins(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "https://app.collabuu.test, ,https://admin.collabuu.test")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	origins := AllowedOrigins()
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins, got %v", origins)
	}
}

func TestParseVisitPoints(t *testing.T) {
	tests := []struct {
		raw     string
		want    map[models.VisitType]int
		wantErr bool
	}{
		{"", DefaultVisitPoints, false},
		{"checkin=5", map[models.VisitType]int{models.VisitTypeCheckin: 5, models.VisitTypePurchase: 25, models.VisitTypeEvent: 15}, false},
		{"checkin=1, purchase=2, event=3", map[models.VisitType]int{models.VisitTypeCheckin: 1, models.VisitTypePurchase: 2, models.VisitTypeEvent: 3}, false},
		{"checkin", nil, true},
		{"dinner=5", nil, true},
		{"event=-1", nil, true},
		{"event=abc", nil, true},
	}
	for _, tc := range tests {
		got, err := ParseVisitPoints(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.raw, err)
			continue
		}
		for k, v := range tc.want {
			if got[k] != v {
				t.Errorf("%q: %s expected %d, got %d", tc.raw, k, v, got[k])
			}
		}
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"collabuu-backend/logging"
	"collabuu-backend/models"

	"github.com/joho/godotenv"
)

const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

// DefaultVisitPoints applies when VISIT_POINTS is unset.
var DefaultVisitPoints = map[models.VisitType]int{
	models.VisitTypeCheckin:  10,
	models.VisitTypePurchase: 25,
	models.VisitTypeEvent:    15,
}

func LoadEnv() error {
	// A missing .env file is fine: in production the variables are set directly.
	_ = godotenv.Load()
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	provider := AuthProvider()
	switch provider {
	case AuthProviderJWT:
		if os.Getenv("JWT_SECRET") == "" {
			missing = append(missing, "JWT_SECRET")
		}
	case AuthProviderFirebase:
	default:
		return fmt.Errorf("AUTH_PROVIDER must be %q or %q, got %q", AuthProviderJWT, AuthProviderFirebase, provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if _, err := ParseVisitPoints(os.Getenv("VISIT_POINTS")); err != nil {
		return fmt.Errorf("VISIT_POINTS: %w", err)
	}

	logger := logging.For("config")
	if provider == AuthProviderFirebase && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		logger.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS not set - using default Firebase credentials")
	}
	if os.Getenv("FIREBASE_STORAGE_BUCKET") == "" {
		logger.Warn().Msg("FIREBASE_STORAGE_BUCKET not set - deal image uploads will fail")
	}
	if os.Getenv("ALLOWED_ORIGINS") == "" {
		logger.Warn().Msg("ALLOWED_ORIGINS not set - CORS may not work correctly")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func AuthProvider() string {
	return strings.ToLower(GetEnv("AUTH_PROVIDER", AuthProviderJWT))
}

// AllowedOrigins returns the comma-separated ALLOWED_ORIGINS list without empty entries.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ParseVisitPoints parses a table such as "checkin=10,purchase=25,event=15".
// Types missing from the table keep their default value.
func ParseVisitPoints(raw string) (map[models.VisitType]int, error) {
	table := make(map[models.VisitType]int, len(DefaultVisitPoints))
	for k, v := range DefaultVisitPoints {
		table[k] = v
	}
	if strings.TrimSpace(raw) == "" {
		return table, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed entry %q, expected type=points", pair)
		}
		visitType, err := models.ParseVisitType(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		points, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid points for %s: %w", visitType, err)
		}
		if points < 0 {
			return nil, fmt.Errorf("points for %s must not be negative", visitType)
		}
		table[visitType] = points
	}
	return table, nil
}

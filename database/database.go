package database

import (
	"fmt"
	"os"
	"strings"

	"collabuu-backend/logging"
	"collabuu-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by DATABASE_URL. A "sqlite:" or "file:" URL
// selects the embedded SQLite driver for local development.
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=collabuu port=5432 sslmode=disable"
	}

	if strings.HasPrefix(dsn, "sqlite:") || strings.HasPrefix(dsn, "file:") {
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite:"))
	}

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Error),
	})
}

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		// SQLite databases get their schema from CreateSQLiteSchema.
		return nil
	}

	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Deal{},
		&models.VisitCode{},
		&models.FavoriteCode{},
		&models.CatalogCode{},
		&models.Favorite{},
		&models.RedemptionRecord{},
		&models.LedgerEntry{},
		&models.Reward{},
	); err != nil {
		return err
	}

	if err := backfillCatalogCodes(db); err != nil {
		return err
	}
	return ensureRedemptionUniqueness(db)
}

// backfillCatalogCodes reserves codes of catalog rows created before
// catalog_codes existed.
func backfillCatalogCodes(db *gorm.DB) error {
	for table, kind := range map[string]models.TargetType{
		"deals":          models.TargetDeal,
		"visit_codes":    models.TargetVisit,
		"favorite_codes": models.TargetFavorite,
	} {
		if err := db.Exec(`
			INSERT INTO catalog_codes (code, target_type, created_at)
			SELECT code, ?, created_at FROM `+table+`
			ON CONFLICT (code) DO NOTHING;
		`, string(kind)).Error; err != nil {
			return fmt.Errorf("failed to backfill catalog codes from %s: %w", table, err)
		}
	}
	return nil
}

// ensureRedemptionUniqueness creates the partial unique index that makes the
// completed-record insert the single serialization point for (code, principal).
// AutoMigrate cannot express the WHERE clause, so it is created here.
func ensureRedemptionUniqueness(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_redemption_completed
		ON redemption_records (code, principal_id)
		WHERE status = 'completed' AND action IN ('claim', 'visit');
	`).Error; err != nil {
		return fmt.Errorf("failed to create redemption uniqueness index: %w", err)
	}
	return nil
}

// CreateDefaultBusiness seeds a business account for the self-hosted identity
// provider when SEED_BUSINESS_EMAIL is set.
func CreateDefaultBusiness(db *gorm.DB) error {
	email := os.Getenv("SEED_BUSINESS_EMAIL")
	password := os.Getenv("SEED_BUSINESS_PASSWORD")
	if email == "" {
		return nil
	}
	if password == "" {
		return fmt.Errorf("SEED_BUSINESS_PASSWORD must be set with SEED_BUSINESS_EMAIL")
	}

	var existing models.Profile
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	business := models.Profile{
		Email:        email,
		Name:         "Default Business",
		Role:         models.RoleBusiness,
		PasswordHash: string(hashed),
	}
	if err := db.Create(&business).Error; err != nil {
		return err
	}

	logging.For("database").Info().Str("email", email).Msg("default business created")
	return nil
}

package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens a SQLite database and creates the schema. The pool is
// limited to one connection so in-memory databases are shared by all callers.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := CreateSQLiteSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// sqliteSchema mirrors the PostgreSQL models with SQLite-compatible DDL.
// AutoMigrate is avoided because the model tags use gen_random_uuid().
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "profiles" (
		"id" TEXT PRIMARY KEY,
		"email" TEXT NOT NULL UNIQUE,
		"name" TEXT,
		"role" TEXT NOT NULL DEFAULT 'customer',
		"password_hash" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "deals" (
		"id" TEXT PRIMARY KEY,
		"business_id" TEXT NOT NULL,
		"title" TEXT NOT NULL,
		"description" TEXT,
		"code" TEXT NOT NULL UNIQUE,
		"credits_reward" INTEGER NOT NULL DEFAULT 0,
		"expiry_date" DATETIME NOT NULL,
		"is_active" INTEGER DEFAULT 1,
		"image_url" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deals_business_id ON "deals"("business_id")`,
	`CREATE TABLE IF NOT EXISTS "visit_codes" (
		"id" TEXT PRIMARY KEY,
		"business_id" TEXT NOT NULL,
		"code" TEXT NOT NULL UNIQUE,
		"visit_type" TEXT NOT NULL,
		"is_active" INTEGER DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "favorite_codes" (
		"id" TEXT PRIMARY KEY,
		"business_id" TEXT NOT NULL,
		"deal_id" TEXT,
		"code" TEXT NOT NULL UNIQUE,
		"is_active" INTEGER DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "catalog_codes" (
		"code" TEXT PRIMARY KEY,
		"target_type" TEXT NOT NULL,
		"created_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "favorites" (
		"id" TEXT PRIMARY KEY,
		"principal_id" TEXT NOT NULL,
		"business_id" TEXT NOT NULL,
		"deal_id" TEXT,
		"created_at" DATETIME
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_favorites_principal_business ON "favorites"("principal_id", "business_id")`,
	`CREATE TABLE IF NOT EXISTS "redemption_records" (
		"id" TEXT PRIMARY KEY,
		"code" TEXT NOT NULL,
		"principal_id" TEXT NOT NULL,
		"target_type" TEXT NOT NULL,
		"business_id" TEXT NOT NULL,
		"deal_id" TEXT,
		"visit_type" TEXT,
		"action" TEXT NOT NULL,
		"points_granted" INTEGER NOT NULL DEFAULT 0,
		"status" TEXT NOT NULL,
		"reject_reason" TEXT,
		"created_at" DATETIME
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_redemption_completed ON "redemption_records"("code", "principal_id")
		WHERE "status" = 'completed' AND "action" IN ('claim', 'visit')`,
	`CREATE TABLE IF NOT EXISTS "ledger_entries" (
		"id" TEXT PRIMARY KEY,
		"principal_id" TEXT NOT NULL,
		"delta" INTEGER NOT NULL,
		"reason" TEXT NOT NULL,
		"created_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_principal_id ON "ledger_entries"("principal_id")`,
	`CREATE TABLE IF NOT EXISTS "rewards" (
		"id" TEXT PRIMARY KEY,
		"business_id" TEXT,
		"title" TEXT NOT NULL,
		"description" TEXT,
		"points_required" INTEGER NOT NULL,
		"is_available" INTEGER DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
}

// CreateSQLiteSchema creates every table and index on a SQLite connection.
func CreateSQLiteSchema(db *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// ResetSQLite deletes every row, children first.
func ResetSQLite(db *gorm.DB) {
	for _, table := range []string{
		"ledger_entries",
		"redemption_records",
		"favorites",
		"catalog_codes",
		"favorite_codes",
		"visit_codes",
		"deals",
		"rewards",
		"profiles",
	} {
		db.Exec("DELETE FROM " + table)
	}
}

package redemption

import (
	"context"
	"errors"

	"collabuu-backend/models"

	"gorm.io/gorm"
)

// ErrCodeTaken is returned by Add when another catalog row already holds the code.
var ErrCodeTaken = errors.New("code already in use")

type GormCatalog struct {
	DB *gorm.DB
}

func (c *GormCatalog) LookupDealByCode(ctx context.Context, code string) (*models.Deal, error) {
	var deal models.Deal
	return found(&deal, c.DB.WithContext(ctx).Where("code = ?", code).First(&deal).Error)
}

func (c *GormCatalog) LookupVisitCodeByCode(ctx context.Context, code string) (*models.VisitCode, error) {
	var visit models.VisitCode
	return found(&visit, c.DB.WithContext(ctx).Where("code = ?", code).First(&visit).Error)
}

func (c *GormCatalog) LookupFavoriteCodeByCode(ctx context.Context, code string) (*models.FavoriteCode, error) {
	var fav models.FavoriteCode
	return found(&fav, c.DB.WithContext(ctx).Where("code = ?", code).First(&fav).Error)
}

// Add reserves code in catalog_codes and inserts row in the same
// transaction. Two concurrent Adds of one code cannot both commit, whichever
// tables their rows go to.
func (c *GormCatalog) Add(ctx context.Context, code string, kind models.TargetType, row interface{}) error {
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CatalogCode{Code: code, TargetType: kind}).Error; err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil && isUniqueViolation(err) {
		return ErrCodeTaken
	}
	return err
}

// CodeInUse is the early check before Add. Rows written before catalog_codes
// existed are checked in their own tables.
func (c *GormCatalog) CodeInUse(ctx context.Context, code string) (bool, error) {
	db := c.DB.WithContext(ctx)
	for _, model := range []interface{}{&models.CatalogCode{}, &models.Deal{}, &models.VisitCode{}, &models.FavoriteCode{}} {
		var count int64
		if err := db.Model(model).Where("code = ?", code).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func found[T any](row *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

package identity

import (
	"context"
	"errors"

	"collabuu-backend/models"

	"gorm.io/gorm"
)

type GormProfileStore struct {
	DB *gorm.DB
}

func (s *GormProfileStore) LookupProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

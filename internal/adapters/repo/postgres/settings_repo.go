package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

const settingsRowID = 1

type SettingsRepo struct{ db *gorm.DB }

func NewSettingsRepo(db *gorm.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) GetSiteSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var rec domain.SiteSettingsRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", settingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec.Data, nil
}

func (r *SettingsRepo) SaveSiteSettings(ctx context.Context, s *domain.SiteSettings) error {
	return r.db.WithContext(ctx).Save(&domain.SiteSettingsRecord{ID: settingsRowID, Data: *s}).Error
}

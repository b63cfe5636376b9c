// Package settings stores runtime overrides for the daily reminder job as
// key/value rows.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	store := settingsstore.New(repo)
//	schedule := store.GetReminderSchedule()
package settings

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shloka/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting returns the row for key or gorm.ErrRecordNotFound.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting upserts value under key.
func (r *Repository) SetSetting(key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// DeleteSettings removes the given keys. Missing keys are ignored.
func (r *Repository) DeleteSettings(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.Where("key IN ?", keys).Delete(&entities.Setting{}).Error
}

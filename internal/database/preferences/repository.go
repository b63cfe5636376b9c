// Package preferences provides database operations for reader settings.
package preferences

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shloka/internal/entities"
	domain "github.com/mrlokans/shloka/internal/preferences"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load returns the stored preferences for userID.
func (r *Repository) Load(ctx context.Context, userID string) (domain.Preferences, bool, error) {
	var row entities.ReaderPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Preferences{}, false, nil
	}
	if err != nil {
		return domain.Preferences{}, false, err
	}
	return domain.Preferences{
		Language:       row.Language,
		DailyReminders: row.DailyReminders,
		SanskritAudio:  row.SanskritAudio,
		DarkMode:       row.DarkMode,
	}, true, nil
}

// Save creates or replaces the preferences for userID.
func (r *Repository) Save(ctx context.Context, userID string, prefs domain.Preferences) error {
	row := entities.ReaderPreference{
		UserID:         userID,
		Language:       prefs.Language,
		DailyReminders: prefs.DailyReminders,
		SanskritAudio:  prefs.SanskritAudio,
		DarkMode:       prefs.DarkMode,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "daily_reminders", "sanskrit_audio", "dark_mode", "updated_at"}),
	}).Create(&row).Error
}

package entities

import "time"

// ReaderPreference is one reader's display and reminder settings.
type ReaderPreference struct {
	UserID         string    `gorm:"primaryKey;size:100" json:"user_id"`
	Language       string    `gorm:"size:10" json:"language"`
	DailyReminders bool      `gorm:"not null" json:"daily_reminders"`
	SanskritAudio  bool      `gorm:"not null" json:"sanskrit_audio"`
	DarkMode       bool      `gorm:"not null" json:"dark_mode"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ReaderPreference) TableName() string {
	return "reader_preferences"
}

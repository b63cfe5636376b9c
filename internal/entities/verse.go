package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Verse is a stored catalog verse. Position keeps catalog order.
type Verse struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Chapter         int            `gorm:"uniqueIndex:idx_verse_ref;not null" json:"chapter"`
	Number          int            `gorm:"column:verse;uniqueIndex:idx_verse_ref;not null" json:"verse"`
	Position        int            `gorm:"index;not null" json:"position"`
	Sanskrit        string         `gorm:"type:text;not null" json:"sanskrit"`
	Transliteration string         `gorm:"type:text" json:"transliteration"`
	Translations    datatypes.JSON `json:"translations"`
	Meaning         string         `gorm:"type:text" json:"meaning,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Verse) TableName() string {
	return "verses"
}

type Language struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"uniqueIndex;size:3;not null" json:"code"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	NativeName string    `gorm:"size:100;not null" json:"native_name"`
	Enabled    bool      `gorm:"not null;default:false" json:"enabled"`
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Language) TableName() string {
	return "languages"
}

package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ReadEvent is an append-only record of a user reading a verse.
type ReadEvent struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  string    `gorm:"index;size:100;not null" json:"user_id"`
	Chapter int       `gorm:"not null" json:"chapter"`
	Verse   int       `gorm:"not null" json:"verse"`
	ReadAt  time.Time `gorm:"index;not null" json:"read_at"`
}

func (ReadEvent) TableName() string {
	return "read_events"
}

// UserState holds the ledger and bookmark state that is not kept as rows.
type UserState struct {
	UserID    string         `gorm:"primaryKey;size:100" json:"user_id"`
	Ledger    datatypes.JSON `json:"ledger"`
	Bookmarks datatypes.JSON `json:"bookmarks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (UserState) TableName() string {
	return "user_states"
}

type LedgerEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:100;not null" json:"user_id"`
	Kind      string    `gorm:"size:30;not null" json:"kind"`
	Amount    int       `gorm:"not null" json:"amount"`
	Balance   int       `gorm:"not null" json:"balance"`
	Chapter   *int      `json:"chapter,omitempty"`
	Verse     *int      `json:"verse,omitempty"`
	Milestone int       `json:"milestone,omitempty"`
	Note      string    `gorm:"size:255" json:"note,omitempty"`
	Seq       int       `gorm:"not null" json:"seq"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

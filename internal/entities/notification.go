package entities

import "time"

type NotificationType string

const (
	NotificationDaily   NotificationType = "daily"
	NotificationContent NotificationType = "content"
	NotificationStreak  NotificationType = "streak"
	NotificationCustom  NotificationType = "custom"
)

type Notification struct {
	ID      string           `gorm:"primaryKey;size:36" json:"id"`
	Title   string           `gorm:"size:200;not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Type    NotificationType `gorm:"index;size:20;not null" json:"type"`
	Chapter *int             `json:"chapter,omitempty"`
	Verse   *int             `json:"verse,omitempty"`
	SentAt  time.Time        `gorm:"index" json:"sent_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

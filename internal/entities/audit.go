package entities

import "time"

type AuditEventType string

const (
	AuditEventVerse        AuditEventType = "verse"
	AuditEventLanguage     AuditEventType = "language"
	AuditEventStore        AuditEventType = "store"
	AuditEventNotification AuditEventType = "notification"
	AuditEventAuth         AuditEventType = "auth"
	AuditEventSettings     AuditEventType = "settings"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Actor       string         `gorm:"index;size:100" json:"actor"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g., "verse_add", "language_default"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType  string         `gorm:"size:50" json:"entity_type"`  // "verse", "language", "store_item"
	EntityID    string         `gorm:"index;size:50" json:"entity_id,omitempty"`
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

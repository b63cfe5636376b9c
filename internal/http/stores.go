package http

import (
	"context"
	"time"

	"github.com/mrlokans/shloka/internal/audit"
	"github.com/mrlokans/shloka/internal/database/journeys"
	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/preferences"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/settingsstore"
	"github.com/mrlokans/shloka/internal/shop"
)

// This file consolidates the interfaces HTTP controllers depend on. Each
// controller takes only the part it needs.

// --- Verse Library ---

// VerseReader provides read access to verses and languages.
type VerseReader interface {
	Verse(ref scripture.Ref) (scripture.Verse, error)
	Search(query string, fields scripture.SearchField) []scripture.Verse
	Translation(v scripture.Verse, code string) (string, string)
	Language(code string) (scripture.Language, error)
	EnabledLanguages() []scripture.Language
	DefaultLanguage() string
}

// DailyVerse resolves the verse of the day for a date.
type DailyVerse interface {
	Get(ctx context.Context, date time.Time) (scripture.Verse, error)
}

// VerseEditor changes the verse catalog.
type VerseEditor interface {
	AddVerse(ctx context.Context, v scripture.Verse) (scripture.Verse, error)
	EditVerse(ctx context.Context, ref scripture.Ref, patch scripture.VersePatch) (scripture.Verse, error)
	RemoveVerse(ctx context.Context, ref scripture.Ref) error
	Import(ctx context.Context, cmds []scripture.VerseCommand) (scripture.ImportResult, error)
}

// LanguageEditor changes the language catalog.
type LanguageEditor interface {
	Languages() []scripture.Language
	AddLanguage(ctx context.Context, code, name, nativeName string, enabled bool) (scripture.Language, error)
	UpdateLanguage(ctx context.Context, code, name, nativeName string) (scripture.Language, error)
	SetLanguageEnabled(ctx context.Context, code string, enabled bool) (scripture.Language, error)
	SetDefaultLanguage(ctx context.Context, code string) (scripture.Language, error)
	RemoveLanguage(ctx context.Context, code string) error
}

// --- Readers ---

// SessionProvider hands out the session for a reader.
type SessionProvider interface {
	Get(ctx context.Context, userID string) (*session.Session, error)
}

// PurchaseHistory lists a reader's purchases.
type PurchaseHistory interface {
	Purchases(ctx context.Context, userID string) ([]shop.Purchase, error)
}

// ReaderPreferences reads and changes a reader's settings.
type ReaderPreferences interface {
	Get(ctx context.Context, userID string) (preferences.Preferences, error)
	Update(ctx context.Context, userID string, patch preferences.Patch) (preferences.Preferences, error)
	WantsDailyReminders(ctx context.Context, userID string) (bool, error)
}

// LanguagePreference returns a reader's display language, or "" for none.
type LanguagePreference interface {
	PreferredLanguage(ctx context.Context, userID string) string
}

// NotificationFeed lists notifications for readers.
type NotificationFeed interface {
	Feed(ctx context.Context, includeDaily bool, limit, offset int) ([]entities.Notification, error)
}

// --- Store ---

// StoreCatalog provides store item CRUD.
type StoreCatalog interface {
	ListItems(ctx context.Context, activeOnly bool) ([]shop.Item, error)
	GetItem(ctx context.Context, id uint) (shop.Item, error)
	CreateItem(ctx context.Context, item shop.Item) (shop.Item, error)
	UpdateItem(ctx context.Context, id uint, patch shop.ItemPatch) (shop.Item, error)
	DeleteItem(ctx context.Context, id uint) error
}

// --- Admin ---

// NotificationLister reads the notification history.
type NotificationLister interface {
	List(ctx context.Context, limit, offset int) ([]entities.Notification, int64, error)
}

// ReminderSettings reads and writes the daily reminder configuration.
type ReminderSettings interface {
	GetReminderConfigInfo() settingsstore.ReminderConfigInfo
	SetReminderEnabled(enabled bool) error
	SetReminderSchedule(schedule string) error
	ClearReminderSettings() error
}

// ReminderRunner controls the daily reminder job.
type ReminderRunner interface {
	Reschedule() error
	IsRunning() bool
	NextRun() *time.Time
	RunNow(ctx context.Context) error
}

// Auditor records admin actions and lists them back.
type Auditor interface {
	LogAction(a audit.Action, err error)
	Events(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// StatsSource summarises reader activity.
type StatsSource interface {
	Stats(ctx context.Context) (journeys.Stats, error)
}

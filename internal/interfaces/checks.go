package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/shloka/internal/audit"
	"github.com/mrlokans/shloka/internal/auth"
	"github.com/mrlokans/shloka/internal/cache"
	auditrepo "github.com/mrlokans/shloka/internal/database/audit"
	"github.com/mrlokans/shloka/internal/database/catalog"
	"github.com/mrlokans/shloka/internal/database/journeys"
	"github.com/mrlokans/shloka/internal/database/notifications"
	prefsrepo "github.com/mrlokans/shloka/internal/database/preferences"
	"github.com/mrlokans/shloka/internal/database/settings"
	"github.com/mrlokans/shloka/internal/database/store"
	"github.com/mrlokans/shloka/internal/http"
	"github.com/mrlokans/shloka/internal/preferences"
	"github.com/mrlokans/shloka/internal/progress"
	"github.com/mrlokans/shloka/internal/scheduler"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/settingsstore"
	"github.com/mrlokans/shloka/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ scripture.Repository = (*catalog.Repository)(nil)
var _ session.StateStore = (*journeys.Repository)(nil)
var _ settingsstore.Backend = (*settings.Repository)(nil)
var _ tasks.NotificationSaver = (*notifications.Repository)(nil)
var _ tasks.AuditEventCleaner = (*auditrepo.Repository)(nil)
var _ preferences.Store = (*prefsrepo.Repository)(nil)

// =============================================================================
// Verse Library
// =============================================================================

var _ http.VerseReader = (*scripture.Library)(nil)
var _ http.VerseEditor = (*scripture.Library)(nil)
var _ http.LanguageEditor = (*scripture.Library)(nil)
var _ session.Catalog = (*scripture.Library)(nil)
var _ progress.VerseCounter = (*scripture.Library)(nil)
var _ scripture.LanguageSource = (*scripture.LanguageCatalog)(nil)
var _ cache.VerseSource = (*scripture.Library)(nil)

// DailyVerse implementations
var _ http.DailyVerse = (*cache.DailyVerse)(nil)
var _ scheduler.DailyVerse = (*cache.DailyVerse)(nil)
var _ http.Pinger = (*cache.DailyVerse)(nil)

// =============================================================================
// Readers and Store
// =============================================================================

var _ http.SessionProvider = (*session.Manager)(nil)
var _ http.ActiveCounter = (*session.Manager)(nil)
var _ http.PurchaseHistory = (*journeys.Repository)(nil)
var _ http.StatsSource = (*journeys.Repository)(nil)
var _ http.StoreCatalog = (*store.Repository)(nil)
var _ http.ReaderPreferences = (*preferences.Service)(nil)
var _ http.LanguagePreference = (*preferences.Service)(nil)
var _ http.NotificationFeed = (*notifications.Repository)(nil)
var _ preferences.Languages = (*scripture.Library)(nil)

// =============================================================================
// Admin
// =============================================================================

var _ http.NotificationLister = (*notifications.Repository)(nil)
var _ http.ReminderSettings = (*settingsstore.SettingsStore)(nil)
var _ scheduler.ReminderSettings = (*settingsstore.SettingsStore)(nil)
var _ http.ReminderRunner = (*scheduler.ReminderScheduler)(nil)
var _ http.Auditor = (*audit.Service)(nil)
var _ auth.Auditor = (*audit.Service)(nil)

// =============================================================================
// Task Queue
// =============================================================================

var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ tasks.Enqueuer = (*tasks.Inline)(nil)

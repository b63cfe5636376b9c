package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/auth"
	"github.com/mrlokans/shloka/internal/database"
	"github.com/mrlokans/shloka/internal/preferences"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Library  *scripture.Library
	Daily    DailyVerse
	Sessions *session.Manager
	Location *time.Location
	Logger   *zap.Logger

	// Reader and store persistence
	Purchases   PurchaseHistory
	Stats       StatsSource
	Store       StoreCatalog
	Preferences *preferences.Service

	// Notifications
	Notifications NotificationLister
	Feed          NotificationFeed
	Queue         tasks.Enqueuer
	Reminder      ReminderRunner
	Settings      ReminderSettings

	// Admin authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	LoginLimiter   *auth.LoginLimiter
	Auditor        Auditor
	AuthAuditor    auth.Auditor

	// Optional health probe for the verse cache
	Cache Pinger

	CORSAllowedOrigins []string

	// Application info
	Version string
}

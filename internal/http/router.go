package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/auth"
	"github.com/mrlokans/shloka/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.GinLogger(logger))
	router.Use(logging.GinRecovery(logger))

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", HeaderUserID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Apply session middleware if enabled
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Cache, cfg.Version)
	var langPrefs LanguagePreference
	if cfg.Preferences != nil {
		langPrefs = cfg.Preferences
	}
	verses := NewVersesController(cfg.Library, cfg.Daily, langPrefs, cfg.Location)
	me := NewMeController(cfg.Sessions, cfg.Purchases)
	store := NewStoreController(cfg.Store, cfg.Sessions)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")
	{
		api.GET("/languages", verses.Languages)
		api.GET("/verses", verses.Search)
		api.GET("/verses/today", verses.Today)
		api.GET("/verses/:chapter/:verse", verses.Get)
		api.GET("/store", store.List)
	}

	reader := api.Group("", RequireReader())
	{
		reader.GET("/me/progress", me.Progress)
		reader.POST("/me/reads", me.RecordRead)
		reader.GET("/me/history", me.History)
		reader.GET("/me/bookmarks", me.Bookmarks)
		reader.POST("/me/bookmarks/:chapter/:verse", me.AddBookmark)
		reader.DELETE("/me/bookmarks/:chapter/:verse", me.RemoveBookmark)
		reader.GET("/me/coins", me.Coins)
		reader.POST("/store/:id/purchase", store.Purchase)
	}

	if cfg.Preferences != nil {
		settings := NewPreferencesController(cfg.Preferences, cfg.Feed)
		reader.GET("/me/settings", settings.Get)
		reader.PATCH("/me/settings", settings.Update)
		if cfg.Feed != nil {
			reader.GET("/me/notifications", settings.Notifications)
		}
	}

	if cfg.SessionManager == nil || cfg.AuthService == nil {
		logger.Warn("admin sessions not configured, admin API disabled")
		return router
	}

	authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter, cfg.AuthAuditor, logger)
	authController.RegisterRoutes(router)

	adminVerses := NewAdminVersesController(cfg.Library, cfg.Auditor)
	adminLanguages := NewAdminLanguagesController(cfg.Library, cfg.Auditor)
	adminStore := NewAdminStoreController(cfg.Store, cfg.Auditor)
	adminNotifications := NewAdminNotificationsController(cfg.Notifications, cfg.Queue, cfg.Settings, cfg.Reminder, cfg.Auditor)
	auditController := NewAuditController(cfg.Auditor, cfg.Stats, cfg.Sessions)

	admin := api.Group("/admin", auth.RequireAdmin(cfg.SessionManager))
	{
		admin.POST("/verses", adminVerses.Create)
		admin.POST("/verses/import", adminVerses.Import)
		admin.PATCH("/verses/:chapter/:verse", adminVerses.Update)
		admin.DELETE("/verses/:chapter/:verse", adminVerses.Delete)

		admin.GET("/languages", adminLanguages.List)
		admin.POST("/languages", adminLanguages.Create)
		admin.PATCH("/languages/:code", adminLanguages.Update)
		admin.DELETE("/languages/:code", adminLanguages.Delete)
		admin.POST("/languages/:code/enable", adminLanguages.Enable)
		admin.POST("/languages/:code/disable", adminLanguages.Disable)
		admin.POST("/languages/:code/default", adminLanguages.SetDefault)

		admin.GET("/store", adminStore.List)
		admin.GET("/store/:id", adminStore.Get)
		admin.POST("/store", adminStore.Create)
		admin.PATCH("/store/:id", adminStore.Update)
		admin.DELETE("/store/:id", adminStore.Delete)

		admin.GET("/notifications", adminNotifications.List)
		admin.POST("/notifications/send", adminNotifications.Send)
		admin.GET("/notifications/reminder", adminNotifications.Reminder)
		admin.PUT("/notifications/reminder", adminNotifications.UpdateReminder)
		admin.DELETE("/notifications/reminder", adminNotifications.ResetReminder)
		admin.POST("/notifications/reminder/run", adminNotifications.RunReminder)

		admin.GET("/audit", auditController.Events)
		admin.GET("/stats", auditController.Stats)
	}

	return router
}

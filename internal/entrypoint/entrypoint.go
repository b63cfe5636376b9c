package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/audit"
	"github.com/mrlokans/shloka/internal/auth"
	"github.com/mrlokans/shloka/internal/cache"
	"github.com/mrlokans/shloka/internal/config"
	"github.com/mrlokans/shloka/internal/database"
	auditrepo "github.com/mrlokans/shloka/internal/database/audit"
	"github.com/mrlokans/shloka/internal/database/catalog"
	"github.com/mrlokans/shloka/internal/database/journeys"
	"github.com/mrlokans/shloka/internal/database/notifications"
	prefsrepo "github.com/mrlokans/shloka/internal/database/preferences"
	"github.com/mrlokans/shloka/internal/database/settings"
	"github.com/mrlokans/shloka/internal/database/store"
	http_controllers "github.com/mrlokans/shloka/internal/http"
	"github.com/mrlokans/shloka/internal/logging"
	"github.com/mrlokans/shloka/internal/preferences"
	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scheduler"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/settingsstore"
	"github.com/mrlokans/shloka/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewLogger builds the process logger from config and installs it as the zap
// global.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   true,
	})
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var listenErr error
	select {
	case <-quit:
	case err := <-serveErr:
		listenErr = fmt.Errorf("listen: %w", err)
	}
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if listenErr == nil {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}

	// Stop background work after in-flight requests are done
	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("server exiting")
	return listenErr
}

func Run(cfg *config.Config, version string) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting shloka", zap.String("version", version))

	loc, err := cfg.Global.Location()
	if err != nil {
		return err
	}
	milestones, err := config.ParseMilestones(cfg.Rewards.Milestones)
	if err != nil {
		return fmt.Errorf("invalid REWARD_MILESTONES: %w", err)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", zap.Error(err))
		}
	}()

	library, err := scripture.LoadLibrary(context.Background(), catalog.NewRepository(db.DB))
	if err != nil {
		return fmt.Errorf("failed to load verse library: %w", err)
	}
	logger.Info("verse library loaded",
		zap.Int("verses", library.TotalVerses()),
		zap.String("default_language", library.DefaultLanguage()))

	journeysRepo := journeys.NewRepository(db.DB)
	storeRepo := store.NewRepository(db.DB)
	notificationsRepo := notifications.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)
	settingsStore := settingsstore.New(settings.NewRepository(db.DB))
	readerPrefs := preferences.NewService(prefsrepo.NewRepository(db.DB), library)

	sessions := session.NewManager(journeysRepo, library, loc, rewards.Config{
		DailyRead:  cfg.Rewards.DailyRead,
		Bookmark:   cfg.Rewards.Bookmark,
		Milestones: milestones,
		Location:   loc,
	}, session.WithCacheSize(cfg.Sessions.CacheSize), session.WithSessionTTL(cfg.Sessions.IdleTTL))

	auditService := audit.NewService(auditRepo, logger)

	// Initialize task queue, or run tasks inline when it is disabled
	var queue tasks.Enqueuer
	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, tasks.Processors{
			Notifications: notificationsRepo,
			AuditEvents:   auditRepo,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		taskClient.Start()
		queue = taskClient
	} else {
		logger.Info("task queue disabled, running tasks inline")
		queue = tasks.NewInline(notificationsRepo, auditRepo, logger)
	}

	// Verse of the day cache is optional
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("verse cache unavailable, computing verse of the day per request", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	daily := cache.NewDailyVerse(redisClient, library, cfg.Redis.VerseCacheTTL, logger)

	reminder := scheduler.NewReminderScheduler(settingsStore, daily, library, queue, loc, logger)
	if err := reminder.Start(); err != nil {
		logger.Error("failed to start reminder scheduler", zap.Error(err))
	}
	auditCleanup := scheduler.NewAuditCleanup(queue, cfg.Audit.RetentionDays, logger)
	if err := auditCleanup.Start(); err != nil {
		logger.Error("failed to start audit cleanup", zap.Error(err))
	}

	// Admin authentication
	authService := auth.NewService(cfg.Admin)
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Admin)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}
	if !authService.Configured() {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:           db,
		Library:            library,
		Daily:              daily,
		Sessions:           sessions,
		Location:           loc,
		Logger:             logger,
		Purchases:          journeysRepo,
		Stats:              journeysRepo,
		Store:              storeRepo,
		Preferences:        readerPrefs,
		Notifications:      notificationsRepo,
		Feed:               notificationsRepo,
		Queue:              queue,
		Reminder:           reminder,
		Settings:           settingsStore,
		AuthService:        authService,
		SessionManager:     sessionManager,
		LoginLimiter:       auth.NewLoginLimiter(cfg.Admin.LoginRatePerMinute),
		Auditor:            auditService,
		AuthAuditor:        auditService,
		Cache:              daily,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Version:            version,
	})

	onShutdown := func(ctx context.Context) {
		reminder.Stop()
		auditCleanup.Stop()
		if taskClient != nil {
			if err := taskClient.Shutdown(ctx); err != nil {
				logger.Error("error closing task client", zap.Error(err))
			}
		}
		auditService.Wait()
	}

	return Serve(router, cfg, logger, onShutdown)
}

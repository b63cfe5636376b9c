package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Logging
		Redis
		Admin
		Rewards
		Sessions
		Reminder
		Audit
		Tasks
	}

	HTTP struct {
		Port               int32
		Host               string
		CORSAllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		Timezone                 string
	}
	Database struct {
		Path string
	}
	Logging struct {
		Level      string
		Path       string // Rotated file sink, stdout only when empty
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
	Redis struct {
		Addr          string // Verse cache disabled when empty
		Password      string
		DB            int
		VerseCacheTTL time.Duration
	}
	Admin struct {
		Username           string
		PasswordHash       string // bcrypt, see the hash-password command
		SessionLifetime    time.Duration
		SecureCookies      bool // Set to false for local dev without HTTPS
		LoginRatePerMinute int
	}
	Rewards struct {
		DailyRead  int
		Bookmark   int
		Milestones string // "7:50,15:100,30:250"
	}
	Sessions struct {
		CacheSize int           // Reader sessions kept in memory
		IdleTTL   time.Duration // Unused sessions are dropped after this
	}
	Reminder struct {
		Enabled  bool
		Schedule string // Cron format: "0 9 * * *" = daily at 09:00
	}
	Audit struct {
		RetentionDays int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// LoadDotEnv loads variables from an optional .env file. Variables already
// present in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("cors_allowed_origins", "http://localhost:5173")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_path", "")
	v.SetDefault("log_max_size_mb", 100)
	v.SetDefault("log_max_backups", 5)
	v.SetDefault("log_max_age_days", 30)

	// Verse cache defaults
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("verse_cache_ttl", "24h")

	// Admin defaults
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("admin_session_lifetime", "12h")
	v.SetDefault("admin_secure_cookies", true)
	v.SetDefault("admin_login_rate_per_minute", 5)

	// Reward defaults
	v.SetDefault("reward_daily_read", 10)
	v.SetDefault("reward_bookmark", 2)
	v.SetDefault("reward_milestones", DefaultMilestones)

	// Reader session cache defaults
	v.SetDefault("session_cache_size", 10000)
	v.SetDefault("session_idle_ttl", "30m")

	v.SetDefault("reminder_enabled", false)
	v.SetDefault("reminder_schedule", "0 9 * * *")
	v.SetDefault("audit_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port:               v.GetInt32("PORT"),
			Host:               v.GetString("HOST"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			Timezone:                 v.GetString("TIMEZONE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Logging: Logging{
			Level:      v.GetString("LOG_LEVEL"),
			Path:       v.GetString("LOG_PATH"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Redis: Redis{
			Addr:          v.GetString("REDIS_ADDR"),
			Password:      v.GetString("REDIS_PASSWORD"),
			DB:            v.GetInt("REDIS_DB"),
			VerseCacheTTL: v.GetDuration("VERSE_CACHE_TTL"),
		},
		Admin: Admin{
			Username:           v.GetString("ADMIN_USERNAME"),
			PasswordHash:       v.GetString("ADMIN_PASSWORD_HASH"),
			SessionLifetime:    v.GetDuration("ADMIN_SESSION_LIFETIME"),
			SecureCookies:      v.GetBool("ADMIN_SECURE_COOKIES"),
			LoginRatePerMinute: v.GetInt("ADMIN_LOGIN_RATE_PER_MINUTE"),
		},
		Rewards: Rewards{
			DailyRead:  v.GetInt("REWARD_DAILY_READ"),
			Bookmark:   v.GetInt("REWARD_BOOKMARK"),
			Milestones: v.GetString("REWARD_MILESTONES"),
		},
		Sessions: Sessions{
			CacheSize: v.GetInt("SESSION_CACHE_SIZE"),
			IdleTTL:   v.GetDuration("SESSION_IDLE_TTL"),
		},
		Reminder: Reminder{
			Enabled:  v.GetBool("REMINDER_ENABLED"),
			Schedule: v.GetString("REMINDER_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// Location resolves the configured time zone used for calendar days.
func (g Global) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// ParseMilestones parses a "streak:coins" comma separated list.
func ParseMilestones(s string) (map[int]int, error) {
	out := map[int]int{}
	for _, part := range splitList(s) {
		streak, coins, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("milestone %q: expected streak:coins", part)
		}
		st, err := strconv.Atoi(strings.TrimSpace(streak))
		if err != nil || st <= 0 {
			return nil, fmt.Errorf("milestone %q: invalid streak", part)
		}
		c, err := strconv.Atoi(strings.TrimSpace(coins))
		if err != nil || c <= 0 {
			return nil, fmt.Errorf("milestone %q: invalid coin amount", part)
		}
		out[st] = c
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

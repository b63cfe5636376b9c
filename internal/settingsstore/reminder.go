package settingsstore

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/shloka/internal/entities"
)

const (
	envReminderEnabled  = "REMINDER_ENABLED"
	envReminderSchedule = "REMINDER_SCHEDULE"

	// DefaultReminderSchedule fires every day at 09:00.
	DefaultReminderSchedule = "0 9 * * *"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ReminderConfig represents the effective configuration for daily reminders
type ReminderConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// ReminderConfigInfo includes source information for each field
type ReminderConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"`

	Schedule            string     `json:"schedule"`
	ScheduleSource      string     `json:"schedule_source"`
	ScheduleDescription string     `json:"schedule_description"`
	NextRunAt           *time.Time `json:"next_run_at,omitempty"`
	LastRunAt           *time.Time `json:"last_run_at,omitempty"`
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// GetReminderEnabled returns whether reminders are enabled (database > env > default)
func (s *SettingsStore) GetReminderEnabled() bool {
	v, _ := s.reminderEnabled()
	return v
}

func (s *SettingsStore) reminderEnabled() (bool, string) {
	if v, ok := s.stored(entities.SettingKeyReminderEnabled); ok {
		return parseBool(v), SourceDatabase
	}
	if v := os.Getenv(envReminderEnabled); v != "" {
		return parseBool(v), SourceEnvironment
	}
	// Default: disabled
	return false, SourceDefault
}

// SetReminderEnabled saves the enabled setting to database
func (s *SettingsStore) SetReminderEnabled(enabled bool) error {
	return s.db.SetSetting(entities.SettingKeyReminderEnabled, strconv.FormatBool(enabled))
}

// GetReminderSchedule returns the cron schedule (database > env > default)
func (s *SettingsStore) GetReminderSchedule() string {
	v, _ := s.reminderSchedule()
	return v
}

func (s *SettingsStore) reminderSchedule() (string, string) {
	if v, ok := s.stored(entities.SettingKeyReminderSchedule); ok {
		return v, SourceDatabase
	}
	if v := os.Getenv(envReminderSchedule); v != "" {
		return v, SourceEnvironment
	}
	return DefaultReminderSchedule, SourceDefault
}

// SetReminderSchedule validates and saves the schedule to database
func (s *SettingsStore) SetReminderSchedule(schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return s.db.SetSetting(entities.SettingKeyReminderSchedule, schedule)
}

// GetReminderConfig returns the effective configuration
func (s *SettingsStore) GetReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled:  s.GetReminderEnabled(),
		Schedule: s.GetReminderSchedule(),
	}
}

// GetReminderConfigInfo returns the configuration with source information
func (s *SettingsStore) GetReminderConfigInfo() ReminderConfigInfo {
	enabled, enabledSource := s.reminderEnabled()
	schedule, scheduleSource := s.reminderSchedule()

	info := ReminderConfigInfo{
		Enabled:             enabled,
		EnabledSource:       enabledSource,
		Schedule:            schedule,
		ScheduleSource:      scheduleSource,
		ScheduleDescription: GetCronDescription(schedule),
		LastRunAt:           s.GetReminderLastRun(),
	}
	if enabled {
		if next, err := GetNextRunTime(schedule, time.Now()); err == nil {
			info.NextRunAt = next
		}
	}
	return info
}

// GetReminderLastRun returns when the scheduler last enqueued a reminder.
func (s *SettingsStore) GetReminderLastRun() *time.Time {
	v, ok := s.stored(entities.SettingKeyReminderLastAt)
	if !ok {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &ts
}

// SetReminderLastRun records a reminder run.
func (s *SettingsStore) SetReminderLastRun(at time.Time) error {
	return s.db.SetSetting(entities.SettingKeyReminderLastAt, at.UTC().Format(time.RFC3339))
}

// ClearReminderSettings clears all database overrides, reverting to env/default
func (s *SettingsStore) ClearReminderSettings() error {
	return s.clear(entities.SettingKeyReminderEnabled, entities.SettingKeyReminderSchedule)
}

// ValidateCronSchedule validates a cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 9 * * *":
		return "Daily at 09:00"
	case "0 6 * * *":
		return "Daily at 06:00"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 * * * *":
		return "Every hour at :00"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the schedule next fires after from.
func GetNextRunTime(schedule string, from time.Time) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(from)
	return &next, nil
}

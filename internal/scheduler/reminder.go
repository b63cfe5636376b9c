// Package scheduler runs the cron-driven background jobs: the daily verse
// reminder and audit trail cleanup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/settingsstore"
	"github.com/mrlokans/shloka/internal/tasks"
)

// DailyVerse resolves the verse of the day.
type DailyVerse interface {
	Get(ctx context.Context, date time.Time) (scripture.Verse, error)
}

// Translator renders a verse in the default language.
type Translator interface {
	DefaultLanguage() string
	Translation(v scripture.Verse, code string) (string, string)
}

// ReminderSettings is the subset of the settings store the scheduler reads.
type ReminderSettings interface {
	GetReminderConfig() settingsstore.ReminderConfig
	SetReminderLastRun(at time.Time) error
}

// ReminderScheduler enqueues a daily reminder carrying the verse of the day.
type ReminderScheduler struct {
	settings   ReminderSettings
	verses     DailyVerse
	translator Translator
	queue      tasks.Enqueuer
	logger     *zap.Logger
	loc        *time.Location
	now        func() time.Time

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewReminderScheduler creates a new scheduler instance
func NewReminderScheduler(settings ReminderSettings, verses DailyVerse, translator Translator, queue tasks.Enqueuer, loc *time.Location, logger *zap.Logger) *ReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{
		settings:   settings,
		verses:     verses,
		translator: translator,
		queue:      queue,
		logger:     logger.Named("reminder"),
		loc:        loc,
		now:        time.Now,
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
			cron.WithLocation(loc),
		),
	}
}

// Start begins the scheduler if reminders are enabled
func (s *ReminderScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	cfg := s.settings.GetReminderConfig()
	if !cfg.Enabled {
		s.logger.Info("reminder scheduler disabled")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(cfg.Schedule, func() {
		if err := s.RunNow(context.Background()); err != nil {
			s.logger.Error("daily reminder failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(cfg.Schedule, s.now().In(s.loc))
	s.logger.Info("reminder scheduler started",
		zap.String("schedule", cfg.Schedule),
		zap.String("description", settingsstore.GetCronDescription(cfg.Schedule)),
		zap.Timep("next_run", nextRun))
	return nil
}

// Stop gracefully stops the scheduler
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	s.logger.Info("reminder scheduler stopped")
}

// Reschedule applies changed settings.
func (s *ReminderScheduler) Reschedule() error {
	s.Stop()
	return s.Start()
}

// IsRunning returns whether the scheduler is active
func (s *ReminderScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next reminder will fire.
func (s *ReminderScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow enqueues today's reminder immediately.
func (s *ReminderScheduler) RunNow(ctx context.Context) error {
	now := s.now().In(s.loc)

	task, err := s.dailyTask(ctx, now)
	if err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return err
	}
	if err := s.settings.SetReminderLastRun(now); err != nil {
		s.logger.Warn("failed to record reminder run", zap.Error(err))
	}

	s.logger.Info("daily reminder enqueued", zap.String("verse", task.Title))
	return nil
}

func (s *ReminderScheduler) dailyTask(ctx context.Context, date time.Time) (tasks.SendNotificationTask, error) {
	v, err := s.verses.Get(ctx, date)
	if err != nil {
		return tasks.SendNotificationTask{}, fmt.Errorf("verse of the day: %w", err)
	}

	text, _ := s.translator.Translation(v, s.translator.DefaultLanguage())
	return tasks.SendNotificationTask{
		ID:      uuid.NewString(),
		Title:   "Today's shloka: " + v.Ref.Label(),
		Message: text,
		Type:    entities.NotificationDaily,
		Chapter: v.Ref.Chapter,
		Verse:   v.Ref.Verse,
	}, nil
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/settingsstore"
	"github.com/mrlokans/shloka/internal/tasks"
)

type fakeSettings struct {
	cfg     settingsstore.ReminderConfig
	lastRun *time.Time
}

func (f *fakeSettings) GetReminderConfig() settingsstore.ReminderConfig { return f.cfg }

func (f *fakeSettings) SetReminderLastRun(at time.Time) error {
	f.lastRun = &at
	return nil
}

type fixedVerse struct {
	verse scripture.Verse
	err   error
}

func (f fixedVerse) Get(context.Context, time.Time) (scripture.Verse, error) {
	return f.verse, f.err
}

type englishOnly struct{}

func (englishOnly) DefaultLanguage() string { return "en" }

func (englishOnly) Translation(v scripture.Verse, code string) (string, string) {
	return v.Translations[code], code
}

type recordingQueue struct {
	tasks []backlite.Task
}

func (r *recordingQueue) Enqueue(_ context.Context, task backlite.Task) error {
	r.tasks = append(r.tasks, task)
	return nil
}

func newTestScheduler(settings *fakeSettings, verses DailyVerse) (*ReminderScheduler, *recordingQueue) {
	queue := &recordingQueue{}
	s := NewReminderScheduler(settings, verses, englishOnly{}, queue, time.UTC, nil)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return s, queue
}

func TestReminderScheduler_RunNow(t *testing.T) {
	settings := &fakeSettings{}
	verse := scripture.Verse{
		Ref:          scripture.Ref{Chapter: 2, Verse: 47},
		Translations: map[string]string{"en": "You have a right to perform your prescribed duty."},
	}
	s, queue := newTestScheduler(settings, fixedVerse{verse: verse})

	require.NoError(t, s.RunNow(context.Background()))
	require.Len(t, queue.tasks, 1)

	task, ok := queue.tasks[0].(tasks.SendNotificationTask)
	require.True(t, ok)
	assert.Len(t, task.ID, 36)
	assert.Equal(t, "Today's shloka: Chapter 2, Verse 47", task.Title)
	assert.Equal(t, verse.Translations["en"], task.Message)
	assert.Equal(t, entities.NotificationDaily, task.Type)
	assert.Equal(t, 2, task.Chapter)
	assert.Equal(t, 47, task.Verse)

	require.NotNil(t, settings.lastRun)
}

func TestReminderScheduler_RunNowEmptyCatalog(t *testing.T) {
	settings := &fakeSettings{}
	s, queue := newTestScheduler(settings, fixedVerse{err: scripture.ErrEmptyCatalog})

	err := s.RunNow(context.Background())
	assert.True(t, errors.Is(err, scripture.ErrEmptyCatalog))
	assert.Empty(t, queue.tasks)
	assert.Nil(t, settings.lastRun)
}

func TestReminderScheduler_StartStop(t *testing.T) {
	t.Run("disabled does not start", func(t *testing.T) {
		s, _ := newTestScheduler(&fakeSettings{cfg: settingsstore.ReminderConfig{Enabled: false, Schedule: "0 9 * * *"}}, fixedVerse{})
		require.NoError(t, s.Start())
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRun())
	})

	t.Run("enabled schedules the job", func(t *testing.T) {
		settings := &fakeSettings{cfg: settingsstore.ReminderConfig{Enabled: true, Schedule: "0 9 * * *"}}
		s, _ := newTestScheduler(settings, fixedVerse{})
		require.NoError(t, s.Start())
		defer s.Stop()

		assert.True(t, s.IsRunning())
		next := s.NextRun()
		require.NotNil(t, next)
		assert.Equal(t, 9, next.In(time.UTC).Hour())
	})

	t.Run("invalid schedule", func(t *testing.T) {
		settings := &fakeSettings{cfg: settingsstore.ReminderConfig{Enabled: true, Schedule: "whenever"}}
		s, _ := newTestScheduler(settings, fixedVerse{})
		assert.Error(t, s.Start())
		assert.False(t, s.IsRunning())
	})

	t.Run("reschedule picks up new settings", func(t *testing.T) {
		settings := &fakeSettings{cfg: settingsstore.ReminderConfig{Enabled: true, Schedule: "0 9 * * *"}}
		s, _ := newTestScheduler(settings, fixedVerse{})
		require.NoError(t, s.Start())

		settings.cfg = settingsstore.ReminderConfig{Enabled: false}
		require.NoError(t, s.Reschedule())
		assert.False(t, s.IsRunning())

		settings.cfg = settingsstore.ReminderConfig{Enabled: true, Schedule: "15 6 * * *"}
		require.NoError(t, s.Reschedule())
		defer s.Stop()
		require.NotNil(t, s.NextRun())
		assert.Equal(t, 6, s.NextRun().In(time.UTC).Hour())
		assert.Len(t, s.cron.Entries(), 1)
	})
}

func TestAuditCleanup_RunNow(t *testing.T) {
	queue := &recordingQueue{}
	cleanup := NewAuditCleanup(queue, 14, nil)

	require.NoError(t, cleanup.RunNow(context.Background()))
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.CleanupAuditEventsTask{RetentionDays: 14}, queue.tasks[0])

	require.NoError(t, cleanup.Start())
	cleanup.Stop()
}

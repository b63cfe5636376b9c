package settings

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/settingsstore"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_settings_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Setting{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db), db, cleanup
}

func TestRepository_ScheduleUpsertKeepsOneRow(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, schedule := range []string{"0 9 * * *", "30 6 * * *", "0 6 * * 1-5"} {
		require.NoError(t, repo.SetSetting(entities.SettingKeyReminderSchedule, schedule))
	}

	var count int64
	require.NoError(t, db.Model(&entities.Setting{}).Where("key = ?", entities.SettingKeyReminderSchedule).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	setting, err := repo.GetSetting(entities.SettingKeyReminderSchedule)
	require.NoError(t, err)
	assert.Equal(t, "0 6 * * 1-5", setting.Value)
}

func TestRepository_GetSettingMissing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting(entities.SettingKeyReminderLastAt)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteSettingsLeavesOtherKeys(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyReminderEnabled, "true"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyReminderSchedule, "0 6 * * *"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyReminderLastAt, "2026-03-01T06:00:00Z"))

	require.NoError(t, repo.DeleteSettings(entities.SettingKeyReminderEnabled, entities.SettingKeyReminderSchedule, "never_set"))

	_, err := repo.GetSetting(entities.SettingKeyReminderEnabled)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetSetting(entities.SettingKeyReminderSchedule)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	lastAt, err := repo.GetSetting(entities.SettingKeyReminderLastAt)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T06:00:00Z", lastAt.Value)

	assert.NoError(t, repo.DeleteSettings())
}

func TestRepository_BacksReminderSettings(t *testing.T) {
	t.Setenv("REMINDER_ENABLED", "")
	t.Setenv("REMINDER_SCHEDULE", "")

	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	store := settingsstore.New(repo)

	info := store.GetReminderConfigInfo()
	assert.Equal(t, settingsstore.SourceDefault, info.ScheduleSource)
	assert.Equal(t, settingsstore.DefaultReminderSchedule, info.Schedule)

	require.NoError(t, store.SetReminderEnabled(true))
	require.NoError(t, store.SetReminderSchedule("0 6 * * *"))
	assert.Error(t, store.SetReminderSchedule("every morning"))

	ranAt := time.Date(2026, 3, 1, 6, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	require.NoError(t, store.SetReminderLastRun(ranAt))

	stored, err := repo.GetSetting(entities.SettingKeyReminderLastAt)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T00:30:00Z", stored.Value)

	info = store.GetReminderConfigInfo()
	assert.True(t, info.Enabled)
	assert.Equal(t, settingsstore.SourceDatabase, info.EnabledSource)
	assert.Equal(t, "0 6 * * *", info.Schedule)
	assert.Equal(t, "Daily at 06:00", info.ScheduleDescription)
	require.NotNil(t, info.NextRunAt)
	require.NotNil(t, info.LastRunAt)
	assert.True(t, info.LastRunAt.Equal(ranAt))

	require.NoError(t, store.ClearReminderSettings())
	info = store.GetReminderConfigInfo()
	assert.False(t, info.Enabled)
	assert.Equal(t, settingsstore.SourceDefault, info.EnabledSource)
	assert.Equal(t, settingsstore.DefaultReminderSchedule, info.Schedule)
	require.NotNil(t, info.LastRunAt)
	assert.True(t, info.LastRunAt.Equal(ranAt))
}

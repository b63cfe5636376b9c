// Package settingsstore resolves runtime settings from the database, the
// environment and built-in defaults, in that order.
package settingsstore

import (
	"github.com/mrlokans/shloka/internal/entities"
)

// Source names where an effective value came from.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// Backend persists setting overrides.
type Backend interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSettings(keys ...string) error
}

// Priority: database > environment > default
type SettingsStore struct {
	db Backend
}

func New(db Backend) *SettingsStore {
	return &SettingsStore{db: db}
}

// stored returns the non-empty database value for key.
func (s *SettingsStore) stored(key string) (string, bool) {
	setting, err := s.db.GetSetting(key)
	if err != nil || setting.Value == "" {
		return "", false
	}
	return setting.Value, true
}

func (s *SettingsStore) clear(keys ...string) error {
	return s.db.DeleteSettings(keys...)
}

// Package preferences keeps each reader's display language and reminder
// opt-in.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/shloka/internal/scripture"
)

// Preferences is what a reader chose on the settings page. An empty Language
// means the catalog default.
type Preferences struct {
	Language       string `json:"language"`
	DailyReminders bool   `json:"daily_reminders"`
	SanskritAudio  bool   `json:"sanskrit_audio"`
	DarkMode       bool   `json:"dark_mode"`
}

// Default is used for readers who never saved settings.
func Default() Preferences {
	return Preferences{DailyReminders: true, SanskritAudio: true}
}

// Patch changes only the fields that are set.
type Patch struct {
	Language       *string `json:"language"`
	DailyReminders *bool   `json:"daily_reminders"`
	SanskritAudio  *bool   `json:"sanskrit_audio"`
	DarkMode       *bool   `json:"dark_mode"`
}

func (p Patch) IsEmpty() bool {
	return p.Language == nil && p.DailyReminders == nil && p.SanskritAudio == nil && p.DarkMode == nil
}

func (p Patch) apply(prefs Preferences) Preferences {
	if p.Language != nil {
		prefs.Language = normalizeCode(*p.Language)
	}
	if p.DailyReminders != nil {
		prefs.DailyReminders = *p.DailyReminders
	}
	if p.SanskritAudio != nil {
		prefs.SanskritAudio = *p.SanskritAudio
	}
	if p.DarkMode != nil {
		prefs.DarkMode = *p.DarkMode
	}
	return prefs
}

// Store persists preferences. Load reports found=false for unknown readers.
type Store interface {
	Load(ctx context.Context, userID string) (prefs Preferences, found bool, err error)
	Save(ctx context.Context, userID string, prefs Preferences) error
}

// Languages resolves language codes against the catalog.
type Languages interface {
	Language(code string) (scripture.Language, error)
}

type Service struct {
	store     Store
	languages Languages
}

func NewService(store Store, languages Languages) *Service {
	return &Service{store: store, languages: languages}
}

// Get returns the reader's preferences, or the defaults.
func (s *Service) Get(ctx context.Context, userID string) (Preferences, error) {
	prefs, found, err := s.store.Load(ctx, userID)
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences for %s: %w", userID, err)
	}
	if !found {
		return Default(), nil
	}
	return prefs, nil
}

// Update applies patch and saves the result. A language must exist and be
// enabled; an empty language resets to the catalog default.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (Preferences, error) {
	if patch.IsEmpty() {
		return Preferences{}, scripture.NewValidationError("settings", "nothing to change")
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	updated := patch.apply(current)

	if patch.Language != nil && updated.Language != "" {
		lang, err := s.languages.Language(updated.Language)
		if errors.Is(err, scripture.ErrNotFound) {
			return Preferences{}, scripture.NewValidationError("language", "unknown language code")
		}
		if err != nil {
			return Preferences{}, err
		}
		if !lang.Enabled {
			return Preferences{}, fmt.Errorf("language %q: %w", lang.Code, scripture.ErrLanguageDisabled)
		}
	}

	if err := s.store.Save(ctx, userID, updated); err != nil {
		return Preferences{}, fmt.Errorf("save preferences for %s: %w", userID, err)
	}
	return updated, nil
}

// PreferredLanguage returns the reader's language when it is still enabled,
// otherwise "". Lookup failures fall back to "" as well.
func (s *Service) PreferredLanguage(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	prefs, err := s.Get(ctx, userID)
	if err != nil || prefs.Language == "" {
		return ""
	}
	lang, err := s.languages.Language(prefs.Language)
	if err != nil || !lang.Enabled {
		return ""
	}
	return lang.Code
}

// WantsDailyReminders reports whether the reader receives daily reminders.
func (s *Service) WantsDailyReminders(ctx context.Context, userID string) (bool, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return prefs.DailyReminders, nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

package scripture

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Repository persists the catalog. Verses are returned in catalog order.
type Repository interface {
	LoadLanguages(ctx context.Context) ([]Language, error)
	LoadVerses(ctx context.Context) ([]Verse, error)
	SaveLanguages(ctx context.Context, languages []Language) error
	CreateVerse(ctx context.Context, verse Verse) error
	UpdateVerse(ctx context.Context, verse Verse) error
	DeleteVerse(ctx context.Context, ref Ref) error
}

// Library is the shared, concurrency-safe catalog. Every mutation is written
// through to the repository and undone in memory if the write fails.
type Library struct {
	mu        sync.RWMutex
	repo      Repository
	languages *LanguageCatalog
	verses    *VerseStore
	version   uint64
}

// LoadLibrary reads the catalog from repo, seeding the default languages and
// sample verses when the database is empty.
func LoadLibrary(ctx context.Context, repo Repository) (*Library, error) {
	langs, err := repo.LoadLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load languages: %w", err)
	}
	if len(langs) == 0 {
		langs = DefaultLanguages()
		if err := repo.SaveLanguages(ctx, langs); err != nil {
			return nil, fmt.Errorf("failed to seed languages: %w", err)
		}
	}

	catalog, err := catalogFrom(langs)
	if err != nil {
		return nil, err
	}

	verses, err := repo.LoadVerses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load verses: %w", err)
	}
	if len(verses) == 0 {
		verses = SampleVerses()
		for _, v := range verses {
			if err := repo.CreateVerse(ctx, v); err != nil {
				return nil, fmt.Errorf("failed to seed verse %s: %w", v.Ref, err)
			}
		}
	}

	store := NewVerseStore(catalog)
	for _, v := range verses {
		if store.Contains(v.Ref) {
			return nil, fmt.Errorf("verse %s: %w", v.Ref, ErrDuplicateReference)
		}
		store.insertAt(store.Len(), v.clone())
	}

	return &Library{
		repo:      repo,
		languages: catalog,
		verses:    store,
		version:   1,
	}, nil
}

func catalogFrom(langs []Language) (*LanguageCatalog, error) {
	snap := catalogSnapshot{}
	defaults := 0
	for _, lang := range langs {
		snap.order = append(snap.order, lang.Code)
		snap.langs = append(snap.langs, lang)
		if lang.IsDefault {
			snap.def = lang.Code
			defaults++
		}
	}
	if defaults != 1 {
		return nil, fmt.Errorf("stored catalog has %d default languages, want exactly 1", defaults)
	}

	c := &LanguageCatalog{}
	c.restore(snap)
	return c, nil
}

// Version changes whenever the verse catalog changes.
func (l *Library) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Library) Verse(ref Ref) (Verse, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.Get(ref)
}

func (l *Library) HasVerse(ref Ref) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.Contains(ref)
}

func (l *Library) Verses() []Verse {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.All()
}

func (l *Library) Search(query string, fields SearchField) []Verse {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.Search(query, fields)
}

func (l *Library) VerseOfDay(date time.Time) (Verse, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.VerseOfDay(date)
}

func (l *Library) NextVerse(ref Ref) (Verse, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.Next(ref)
}

func (l *Library) ChapterCounts() map[int]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.ChapterCounts()
}

func (l *Library) TotalVerses() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verses.Len()
}

// Translation returns the verse text in code along with the language actually
// used. Disabled languages fall back to the default.
func (l *Library) Translation(v Verse, code string) (string, string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.languages.IsEnabled(code) {
		code = l.languages.DefaultCode()
	}
	return l.verses.TranslationFor(v, code)
}

func (l *Library) EnabledLanguages() []Language {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.languages.Enabled()
}

func (l *Library) Languages() []Language {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.languages.All()
}

func (l *Library) Language(code string) (Language, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.languages.Get(code)
}

func (l *Library) DefaultLanguage() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.languages.DefaultCode()
}

func (l *Library) AddVerse(ctx context.Context, v Verse) (Verse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v = sanitizeVerse(v)
	if err := l.verses.Add(v); err != nil {
		return Verse{}, err
	}
	if err := l.repo.CreateVerse(ctx, v); err != nil {
		l.verses.removeAt(l.verses.Len() - 1)
		return Verse{}, fmt.Errorf("failed to save verse %s: %w", v.Ref, err)
	}
	l.version++
	return l.verses.Get(v.Ref)
}

func (l *Library) EditVerse(ctx context.Context, ref Ref, patch VersePatch) (Verse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before, err := l.verses.Get(ref)
	if err != nil {
		return Verse{}, err
	}
	updated, err := l.verses.Edit(ref, sanitizePatch(patch))
	if err != nil {
		return Verse{}, err
	}
	if err := l.repo.UpdateVerse(ctx, updated); err != nil {
		l.verses.put(before)
		return Verse{}, fmt.Errorf("failed to save verse %s: %w", ref, err)
	}
	l.version++
	return updated, nil
}

func (l *Library) RemoveVerse(ctx context.Context, ref Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.verses.indexOf(ref)
	if idx < 0 {
		return fmt.Errorf("verse %s: %w", ref, ErrNotFound)
	}
	removed := l.verses.removeAt(idx)
	if err := l.repo.DeleteVerse(ctx, ref); err != nil {
		l.verses.insertAt(idx, removed)
		return fmt.Errorf("failed to delete verse %s: %w", ref, err)
	}
	l.version++
	return nil
}

func (l *Library) AddLanguage(ctx context.Context, code, name, nativeName string, enabled bool) (Language, error) {
	return l.mutateLanguages(ctx, func(c *LanguageCatalog) (Language, error) {
		return c.Add(code, SanitizeText(name), SanitizeText(nativeName), enabled)
	})
}

func (l *Library) UpdateLanguage(ctx context.Context, code, name, nativeName string) (Language, error) {
	return l.mutateLanguages(ctx, func(c *LanguageCatalog) (Language, error) {
		return c.Update(code, SanitizeText(name), SanitizeText(nativeName))
	})
}

func (l *Library) SetLanguageEnabled(ctx context.Context, code string, enabled bool) (Language, error) {
	return l.mutateLanguages(ctx, func(c *LanguageCatalog) (Language, error) {
		return c.SetEnabled(code, enabled)
	})
}

func (l *Library) SetDefaultLanguage(ctx context.Context, code string) (Language, error) {
	return l.mutateLanguages(ctx, func(c *LanguageCatalog) (Language, error) {
		return c.SetDefault(code)
	})
}

func (l *Library) RemoveLanguage(ctx context.Context, code string) error {
	_, err := l.mutateLanguages(ctx, func(c *LanguageCatalog) (Language, error) {
		return Language{}, c.Remove(code)
	})
	return err
}

func (l *Library) mutateLanguages(ctx context.Context, fn func(*LanguageCatalog) (Language, error)) (Language, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.languages.snapshot()
	lang, err := fn(l.languages)
	if err != nil {
		return Language{}, err
	}
	if err := l.repo.SaveLanguages(ctx, l.languages.All()); err != nil {
		l.languages.restore(snap)
		return Language{}, fmt.Errorf("failed to save languages: %w", err)
	}
	return lang, nil
}

package scripture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *LanguageCatalog {
	t.Helper()
	c, err := NewLanguageCatalog(Language{Code: "en", Name: "English", NativeName: "English"})
	require.NoError(t, err)
	_, err = c.Add("hi", "Hindi", "हिंदी", true)
	require.NoError(t, err)
	return c
}

func verse(chapter, num int, en string) Verse {
	return Verse{
		Ref:             Ref{Chapter: chapter, Verse: num},
		Sanskrit:        "श्लोक",
		Transliteration: "shloka",
		Translations:    map[string]string{"en": en, "hi": "अनुवाद"},
	}
}

func TestVerseStoreAdd(t *testing.T) {
	t.Run("appends in insertion order", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		require.NoError(t, store.Add(verse(2, 47, "duty")))
		require.NoError(t, store.Add(verse(2, 20, "soul")))

		all := store.All()
		require.Len(t, all, 2)
		assert.Equal(t, Ref{2, 47}, all[0].Ref)
		assert.Equal(t, Ref{2, 20}, all[1].Ref)
	})

	t.Run("rejects duplicate reference", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		require.NoError(t, store.Add(verse(2, 47, "duty")))

		err := store.Add(verse(2, 47, "again"))
		assert.ErrorIs(t, err, ErrDuplicateReference)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("requires every enabled translation", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		v := verse(2, 47, "duty")
		delete(v.Translations, "hi")

		err := store.Add(v)
		require.ErrorIs(t, err, ErrMissingTranslation)
		var missing *MissingTranslationError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "hi", missing.Code)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("disabled languages are optional", func(t *testing.T) {
		catalog := newTestCatalog(t)
		_, err := catalog.SetEnabled("hi", false)
		require.NoError(t, err)
		store := NewVerseStore(catalog)

		v := verse(2, 47, "duty")
		delete(v.Translations, "hi")
		assert.NoError(t, store.Add(v))
	})

	t.Run("rejects non-positive reference and empty sanskrit", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))

		assert.ErrorIs(t, store.Add(verse(0, 1, "x")), ErrValidation)
		assert.ErrorIs(t, store.Add(verse(1, -3, "x")), ErrValidation)

		v := verse(1, 1, "x")
		v.Sanskrit = "  "
		assert.ErrorIs(t, store.Add(v), ErrValidation)
	})

	t.Run("stored verse is isolated from caller map", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		v := verse(2, 47, "duty")
		require.NoError(t, store.Add(v))

		v.Translations["en"] = "changed"
		got, err := store.Get(Ref{2, 47})
		require.NoError(t, err)
		assert.Equal(t, "duty", got.Translations["en"])
	})
}

func TestVerseStoreEdit(t *testing.T) {
	t.Run("merges translations and meaning", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		require.NoError(t, store.Add(verse(2, 47, "duty")))

		meaning := "Karma Yoga"
		updated, err := store.Edit(Ref{2, 47}, VersePatch{
			Translations: map[string]string{"en": "your duty"},
			Meaning:      &meaning,
		})
		require.NoError(t, err)
		assert.Equal(t, "your duty", updated.Translations["en"])
		assert.Equal(t, "अनुवाद", updated.Translations["hi"])
		assert.Equal(t, "Karma Yoga", updated.Meaning)
		assert.Equal(t, "श्लोक", updated.Sanskrit)
	})

	t.Run("missing verse", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		_, err := store.Edit(Ref{9, 9}, VersePatch{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blanking an enabled translation fails and leaves verse unchanged", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		require.NoError(t, store.Add(verse(2, 47, "duty")))

		_, err := store.Edit(Ref{2, 47}, VersePatch{Translations: map[string]string{"hi": ""}})
		assert.ErrorIs(t, err, ErrMissingTranslation)

		got, err := store.Get(Ref{2, 47})
		require.NoError(t, err)
		assert.Equal(t, "अनुवाद", got.Translations["hi"])
	})

	t.Run("newly enabled language does not block other edits", func(t *testing.T) {
		catalog := newTestCatalog(t)
		store := NewVerseStore(catalog)
		require.NoError(t, store.Add(verse(2, 47, "duty")))

		_, err := catalog.Add("fr", "French", "Français", true)
		require.NoError(t, err)

		meaning := "Act without attachment to results"
		updated, err := store.Edit(Ref{2, 47}, VersePatch{Meaning: &meaning})
		require.NoError(t, err)
		assert.Equal(t, meaning, updated.Meaning)

		_, err = store.Edit(Ref{2, 47}, VersePatch{Translations: map[string]string{"fr": "  "}})
		assert.ErrorIs(t, err, ErrMissingTranslation)

		updated, err = store.Edit(Ref{2, 47}, VersePatch{Translations: map[string]string{"fr": "ton devoir"}})
		require.NoError(t, err)
		assert.Equal(t, "ton devoir", updated.Translations["fr"])
	})
}

func TestVerseStoreRemove(t *testing.T) {
	store := NewVerseStore(newTestCatalog(t))
	require.NoError(t, store.Add(verse(2, 47, "duty")))
	require.NoError(t, store.Add(verse(2, 20, "soul")))

	require.NoError(t, store.Remove(Ref{2, 47}))
	assert.False(t, store.Contains(Ref{2, 47}))
	assert.Equal(t, 1, store.Len())

	_, err := store.Get(Ref{2, 47})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Remove(Ref{2, 47}), ErrNotFound)
}

func TestVerseStoreSearch(t *testing.T) {
	store := NewVerseStore(newTestCatalog(t))
	require.NoError(t, store.Add(verse(2, 47, "You have a right to perform your prescribed duty")))
	require.NoError(t, store.Add(verse(2, 20, "For the soul there is neither birth nor death")))

	t.Run("matches translation case-insensitively", func(t *testing.T) {
		results := store.Search("SOUL", AllFields)
		require.Len(t, results, 1)
		assert.Equal(t, Ref{2, 20}, results[0].Ref)
	})

	t.Run("soul scenario", func(t *testing.T) {
		results := store.Search("soul", AllFields)
		refs := make([]Ref, 0, len(results))
		for _, v := range results {
			refs = append(refs, v.Ref)
		}
		assert.Equal(t, []Ref{{2, 20}}, refs)
	})

	t.Run("empty query returns whole catalog", func(t *testing.T) {
		assert.Len(t, store.Search("  ", AllFields), 2)
	})

	t.Run("matches chapter label", func(t *testing.T) {
		results := store.Search("chapter 2, verse 47", FieldLabel)
		require.Len(t, results, 1)
		assert.Equal(t, Ref{2, 47}, results[0].Ref)
	})

	t.Run("field mask limits matching", func(t *testing.T) {
		assert.Empty(t, store.Search("soul", FieldSanskrit|FieldTransliteration))
		assert.Len(t, store.Search("shloka", FieldTransliteration), 2)
	})

	t.Run("results keep catalog order", func(t *testing.T) {
		results := store.Search("verse", FieldLabel)
		require.Len(t, results, 2)
		assert.Equal(t, Ref{2, 47}, results[0].Ref)
		assert.Equal(t, Ref{2, 20}, results[1].Ref)
	})
}

func TestParseSearchFields(t *testing.T) {
	fields, err := ParseSearchFields("")
	require.NoError(t, err)
	assert.Equal(t, AllFields, fields)

	fields, err = ParseSearchFields("sanskrit, label")
	require.NoError(t, err)
	assert.Equal(t, FieldSanskrit|FieldLabel, fields)

	_, err = ParseSearchFields("author")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerseOfDay(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		_, err := store.VerseOfDay(time.Now())
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("same date gives same verse", func(t *testing.T) {
		store := NewVerseStore(newTestCatalog(t))
		for i := 1; i <= 10; i++ {
			require.NoError(t, store.Add(verse(1, i, "text")))
		}

		date := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
		first, err := store.VerseOfDay(date)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := store.VerseOfDay(date.Add(time.Duration(i) * time.Hour))
			require.NoError(t, err)
			assert.Equal(t, first.Ref, again.Ref)
		}
	})

	t.Run("uses the calendar date of the given time", func(t *testing.T) {
		assert.Equal(t, "2024-01-15", DayKey(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)))
	})
}

func TestVerseStoreNavigation(t *testing.T) {
	store := NewVerseStore(newTestCatalog(t))
	require.NoError(t, store.Add(verse(1, 1, "a")))
	require.NoError(t, store.Add(verse(1, 2, "b")))
	require.NoError(t, store.Add(verse(2, 1, "c")))

	next, err := store.Next(Ref{1, 2})
	require.NoError(t, err)
	assert.Equal(t, Ref{2, 1}, next.Ref)

	wrapped, err := store.Next(Ref{2, 1})
	require.NoError(t, err)
	assert.Equal(t, Ref{1, 1}, wrapped.Ref)

	_, err = store.Next(Ref{5, 5})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, map[int]int{1: 2, 2: 1}, store.ChapterCounts())
	assert.Equal(t, []int{1, 2}, store.Chapters())
}

func TestTranslationFor(t *testing.T) {
	catalog := newTestCatalog(t)
	store := NewVerseStore(catalog)
	v := verse(2, 47, "duty")
	v.Translations["hi"] = ""

	text, code := store.TranslationFor(v, "hi")
	assert.Equal(t, "duty", text)
	assert.Equal(t, "en", code)

	v.Translations["hi"] = "कर्म"
	text, code = store.TranslationFor(v, "hi")
	assert.Equal(t, "कर्म", text)
	assert.Equal(t, "hi", code)
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("2.47")
	require.NoError(t, err)
	assert.Equal(t, Ref{2, 47}, ref)
	assert.Equal(t, "2.47", ref.String())
	assert.Equal(t, "Chapter 2, Verse 47", ref.Label())

	for _, bad := range []string{"", "2", "a.1", "2.x", "0.1"} {
		_, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

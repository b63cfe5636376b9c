package scripture

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// LanguageSource tells the verse store which translations are mandatory and
// which language to fall back to.
type LanguageSource interface {
	EnabledCodes() []string
	DefaultCode() string
}

// VerseStore is the ordered verse catalog. Insertion order is catalog order.
// It is not safe for concurrent use; Library serialises access.
type VerseStore struct {
	languages LanguageSource
	order     []Ref
	verses    map[Ref]Verse
}

func NewVerseStore(languages LanguageSource) *VerseStore {
	return &VerseStore{
		languages: languages,
		verses:    make(map[Ref]Verse),
	}
}

// Add appends a verse to the end of the catalog.
func (s *VerseStore) Add(v Verse) error {
	if err := v.Ref.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(v.Sanskrit) == "" {
		return NewValidationError("sanskrit", "is required")
	}
	if _, exists := s.verses[v.Ref]; exists {
		return fmt.Errorf("verse %s: %w", v.Ref, ErrDuplicateReference)
	}
	if err := s.checkTranslations(v); err != nil {
		return err
	}

	s.insertAt(len(s.order), v.clone())
	return nil
}

// Edit applies a partial update to translations and meaning.
func (s *VerseStore) Edit(ref Ref, patch VersePatch) (Verse, error) {
	current, ok := s.verses[ref]
	if !ok {
		return Verse{}, fmt.Errorf("verse %s: %w", ref, ErrNotFound)
	}

	if err := s.checkPatch(patch); err != nil {
		return Verse{}, err
	}
	updated := current.apply(patch)
	s.verses[ref] = updated
	return updated.clone(), nil
}

// Remove deletes a verse. Bookmarks pointing at it are left as they are.
func (s *VerseStore) Remove(ref Ref) error {
	if _, ok := s.verses[ref]; !ok {
		return fmt.Errorf("verse %s: %w", ref, ErrNotFound)
	}
	s.removeAt(s.indexOf(ref))
	return nil
}

func (s *VerseStore) Get(ref Ref) (Verse, error) {
	v, ok := s.verses[ref]
	if !ok {
		return Verse{}, fmt.Errorf("verse %s: %w", ref, ErrNotFound)
	}
	return v.clone(), nil
}

func (s *VerseStore) Contains(ref Ref) bool {
	_, ok := s.verses[ref]
	return ok
}

func (s *VerseStore) Len() int {
	return len(s.order)
}

// All returns the catalog in order.
func (s *VerseStore) All() []Verse {
	out := make([]Verse, 0, len(s.order))
	for _, ref := range s.order {
		out = append(out, s.verses[ref].clone())
	}
	return out
}

// Search does a case-insensitive substring match over the selected fields.
// An empty query returns the whole catalog.
func (s *VerseStore) Search(query string, fields SearchField) []Verse {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return s.All()
	}
	if fields == 0 {
		fields = AllFields
	}

	out := []Verse{}
	for _, ref := range s.order {
		v := s.verses[ref]
		if v.matches(needle, fields) {
			out = append(out, v.clone())
		}
	}
	return out
}

// DayKey is the string hashed to pick the verse of the day.
func DayKey(date time.Time) string {
	return date.Format(time.DateOnly)
}

// VerseOfDay picks catalog index xxhash64("YYYY-MM-DD") mod N. The date is
// taken as given, so callers convert it to the reader's time zone first.
func (s *VerseStore) VerseOfDay(date time.Time) (Verse, error) {
	if len(s.order) == 0 {
		return Verse{}, ErrEmptyCatalog
	}
	idx := xxhash.Sum64String(DayKey(date)) % uint64(len(s.order))
	return s.verses[s.order[idx]].clone(), nil
}

// Next returns the verse after ref in catalog order, wrapping at the end.
func (s *VerseStore) Next(ref Ref) (Verse, error) {
	idx := s.indexOf(ref)
	if idx < 0 {
		return Verse{}, fmt.Errorf("verse %s: %w", ref, ErrNotFound)
	}
	next := s.order[(idx+1)%len(s.order)]
	return s.verses[next].clone(), nil
}

// ChapterCounts maps each chapter to the number of verses it has in the catalog.
func (s *VerseStore) ChapterCounts() map[int]int {
	counts := make(map[int]int)
	for _, ref := range s.order {
		counts[ref.Chapter]++
	}
	return counts
}

// Chapters lists the chapters present in the catalog in ascending order.
func (s *VerseStore) Chapters() []int {
	counts := s.ChapterCounts()
	chapters := make([]int, 0, len(counts))
	for c := range counts {
		chapters = append(chapters, c)
	}
	sort.Ints(chapters)
	return chapters
}

// TranslationFor returns the verse text in code, falling back to the default
// language when the verse has nothing for code.
func (s *VerseStore) TranslationFor(v Verse, code string) (string, string) {
	if v.hasTranslation(code) {
		return v.Translations[code], code
	}
	fallback := s.languages.DefaultCode()
	return v.Translations[fallback], fallback
}

func (s *VerseStore) checkTranslations(v Verse) error {
	for _, code := range s.languages.EnabledCodes() {
		if !v.hasTranslation(code) {
			return &MissingTranslationError{Code: code}
		}
	}
	return nil
}

// checkPatch rejects a patch that blanks the translation of an enabled
// language. Languages the patch does not touch are left alone, so enabling a
// new language does not lock existing verses against edits.
func (s *VerseStore) checkPatch(patch VersePatch) error {
	for _, code := range s.languages.EnabledCodes() {
		text, touched := patch.Translations[code]
		if touched && strings.TrimSpace(text) == "" {
			return &MissingTranslationError{Code: code}
		}
	}
	return nil
}

func (s *VerseStore) indexOf(ref Ref) int {
	for i, r := range s.order {
		if r == ref {
			return i
		}
	}
	return -1
}

func (s *VerseStore) insertAt(idx int, v Verse) {
	s.order = append(s.order, Ref{})
	copy(s.order[idx+1:], s.order[idx:])
	s.order[idx] = v.Ref
	s.verses[v.Ref] = v
}

func (s *VerseStore) removeAt(idx int) Verse {
	ref := s.order[idx]
	v := s.verses[ref]
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.verses, ref)
	return v
}

// put replaces a verse in place without validation. Used to undo an edit.
func (s *VerseStore) put(v Verse) {
	s.verses[v.Ref] = v
}

package scripture

import "strings"

// Verse is a single shloka with its per-language translations.
type Verse struct {
	Ref             Ref               `json:"ref"`
	Sanskrit        string            `json:"sanskrit"`
	Transliteration string            `json:"transliteration"`
	Translations    map[string]string `json:"translations"`
	Meaning         string            `json:"meaning,omitempty"`
}

// VersePatch carries the editable parts of a verse. Nil fields are left alone;
// translations are merged per language code.
type VersePatch struct {
	Translations map[string]string
	Meaning      *string
}

// IsEmpty reports whether the patch would change nothing.
func (p VersePatch) IsEmpty() bool {
	return len(p.Translations) == 0 && p.Meaning == nil
}

func (v Verse) clone() Verse {
	out := v
	out.Translations = make(map[string]string, len(v.Translations))
	for code, text := range v.Translations {
		out.Translations[code] = text
	}
	return out
}

func (v Verse) apply(patch VersePatch) Verse {
	out := v.clone()
	for code, text := range patch.Translations {
		out.Translations[code] = text
	}
	if patch.Meaning != nil {
		out.Meaning = *patch.Meaning
	}
	return out
}

func (v Verse) hasTranslation(code string) bool {
	return strings.TrimSpace(v.Translations[code]) != ""
}

// SearchField selects which parts of a verse a search query is matched against.
type SearchField uint8

const (
	FieldSanskrit SearchField = 1 << iota
	FieldTransliteration
	FieldTranslations
	FieldLabel

	AllFields = FieldSanskrit | FieldTransliteration | FieldTranslations | FieldLabel
)

var searchFieldNames = map[string]SearchField{
	"sanskrit":        FieldSanskrit,
	"transliteration": FieldTransliteration,
	"translations":    FieldTranslations,
	"label":           FieldLabel,
}

// ParseSearchFields turns a comma-separated list of field names into a
// SearchField mask. An empty list selects every field.
func ParseSearchFields(s string) (SearchField, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AllFields, nil
	}

	var fields SearchField
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		field, ok := searchFieldNames[name]
		if !ok {
			return 0, NewValidationError("fields", "unknown search field "+name)
		}
		fields |= field
	}
	if fields == 0 {
		return AllFields, nil
	}
	return fields, nil
}

func (v Verse) matches(needle string, fields SearchField) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	if fields&FieldSanskrit != 0 && contains(v.Sanskrit) {
		return true
	}
	if fields&FieldTransliteration != 0 && contains(v.Transliteration) {
		return true
	}
	if fields&FieldTranslations != 0 {
		for _, text := range v.Translations {
			if contains(text) {
				return true
			}
		}
	}
	if fields&FieldLabel != 0 && contains(v.Ref.Label()) {
		return true
	}
	return false
}

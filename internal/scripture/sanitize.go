package scripture

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from admin-entered text and keeps the plain
// characters, so apostrophes and ampersands survive unescaped.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(input)))
}

func sanitizeVerse(v Verse) Verse {
	out := v.clone()
	out.Sanskrit = SanitizeText(v.Sanskrit)
	out.Transliteration = SanitizeText(v.Transliteration)
	out.Meaning = SanitizeText(v.Meaning)
	for code, text := range v.Translations {
		out.Translations[code] = SanitizeText(text)
	}
	return out
}

func sanitizePatch(p VersePatch) VersePatch {
	out := VersePatch{}
	if p.Translations != nil {
		out.Translations = make(map[string]string, len(p.Translations))
		for code, text := range p.Translations {
			out.Translations[code] = SanitizeText(text)
		}
	}
	if p.Meaning != nil {
		meaning := SanitizeText(*p.Meaning)
		out.Meaning = &meaning
	}
	return out
}

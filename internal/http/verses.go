package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/scripture"
)

// VerseView is a verse with the translation for the requested language.
type VerseView struct {
	scripture.Verse
	Label       string `json:"label"`
	Translation string `json:"translation"`
	Language    string `json:"language"`
}

type VersesController struct {
	library VerseReader
	daily   DailyVerse
	prefs   LanguagePreference
	loc     *time.Location
	now     func() time.Time
}

// NewVersesController builds the public verse endpoints. prefs may be nil;
// when set, readers sending their id get their saved language by default.
func NewVersesController(library VerseReader, daily DailyVerse, prefs LanguagePreference, loc *time.Location) *VersesController {
	if loc == nil {
		loc = time.UTC
	}
	return &VersesController{
		library: library,
		daily:   daily,
		prefs:   prefs,
		loc:     loc,
		now:     time.Now,
	}
}

// Languages returns the enabled display languages.
// GET /api/languages
func (vc *VersesController) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, vc.library.EnabledLanguages())
}

// Search matches q against the selected fields. Translations follow lang, then
// the reader's saved language, then the default.
// GET /api/verses?q=&fields=&lang=
func (vc *VersesController) Search(c *gin.Context) {
	fields, err := scripture.ParseSearchFields(c.Query("fields"))
	if err != nil {
		respondError(c, err)
		return
	}

	code, err := vc.language(c)
	if err != nil {
		respondError(c, err)
		return
	}

	verses := vc.library.Search(c.Query("q"), fields)
	views := make([]VerseView, 0, len(verses))
	for _, v := range verses {
		views = append(views, vc.view(v, code))
	}
	c.JSON(http.StatusOK, views)
}

// Today returns the verse of the day for date (YYYY-MM-DD, default today).
// GET /api/verses/today?date=&lang=
func (vc *VersesController) Today(c *gin.Context) {
	date := vc.now().In(vc.loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, vc.loc)
		if err != nil {
			respondBadRequest(c, "date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	code, err := vc.language(c)
	if err != nil {
		respondError(c, err)
		return
	}

	v, err := vc.daily.Get(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  scripture.DayKey(date),
		"verse": vc.view(v, code),
	})
}

// Get returns a single verse.
// GET /api/verses/:chapter/:verse?lang=
func (vc *VersesController) Get(c *gin.Context) {
	ref, ok := parseRefParams(c)
	if !ok {
		return
	}

	code, err := vc.language(c)
	if err != nil {
		respondError(c, err)
		return
	}

	v, err := vc.library.Verse(ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vc.view(v, code))
}

// language resolves the requested display language. Without a lang query the
// reader's saved language is used, then the catalog default; a known but
// disabled code is rejected.
func (vc *VersesController) language(c *gin.Context) (string, error) {
	code := strings.ToLower(strings.TrimSpace(c.Query("lang")))
	if code == "" && vc.prefs != nil {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		code = vc.prefs.PreferredLanguage(c.Request.Context(), userID)
	}
	if code == "" {
		return vc.library.DefaultLanguage(), nil
	}
	lang, err := vc.library.Language(code)
	if err != nil {
		return "", err
	}
	if !lang.Enabled {
		return "", fmt.Errorf("language %q: %w", code, scripture.ErrLanguageDisabled)
	}
	return lang.Code, nil
}

func (vc *VersesController) view(v scripture.Verse, code string) VerseView {
	text, used := vc.library.Translation(v, code)
	return VerseView{
		Verse:       v,
		Label:       v.Ref.Label(),
		Translation: text,
		Language:    used,
	}
}

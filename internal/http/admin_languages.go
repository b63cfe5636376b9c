package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/scripture"
)

type AdminLanguagesController struct {
	languages LanguageEditor
	auditor   Auditor
}

func NewAdminLanguagesController(languages LanguageEditor, auditor Auditor) *AdminLanguagesController {
	return &AdminLanguagesController{languages: languages, auditor: auditor}
}

func codeParam(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Param("code")))
}

// List returns every language, including disabled ones.
// GET /api/admin/languages
func (lc *AdminLanguagesController) List(c *gin.Context) {
	c.JSON(http.StatusOK, lc.languages.Languages())
}

// Create adds a language.
// POST /api/admin/languages
func (lc *AdminLanguagesController) Create(c *gin.Context) {
	var cmd scripture.LanguageCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := cmd.Validate(); err != nil {
		respondError(c, err)
		return
	}

	lang, err := lc.languages.AddLanguage(c.Request.Context(), cmd.Code, cmd.Name, cmd.NativeName, cmd.IsEnabled())
	lc.auditor.LogAction(newAction(c, entities.AuditEventLanguage, "language_add", "language", cmd.Code, "Added language "+cmd.Name), err)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, lang)
}

// Update renames a language.
// PATCH /api/admin/languages/:code
func (lc *AdminLanguagesController) Update(c *gin.Context) {
	code := codeParam(c)
	var cmd scripture.LanguageUpdateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := cmd.Validate(); err != nil {
		respondError(c, err)
		return
	}

	lang, err := lc.languages.UpdateLanguage(c.Request.Context(), code, cmd.Name, cmd.NativeName)
	lc.auditor.LogAction(newAction(c, entities.AuditEventLanguage, "language_update", "language", code, "Renamed language to "+cmd.Name), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lang)
}

// Enable turns a language on.
// POST /api/admin/languages/:code/enable
func (lc *AdminLanguagesController) Enable(c *gin.Context) {
	lc.setEnabled(c, true)
}

// Disable turns a language off. The default cannot be disabled.
// POST /api/admin/languages/:code/disable
func (lc *AdminLanguagesController) Disable(c *gin.Context) {
	lc.setEnabled(c, false)
}

func (lc *AdminLanguagesController) setEnabled(c *gin.Context, enabled bool) {
	code := codeParam(c)
	action := "language_disable"
	if enabled {
		action = "language_enable"
	}

	lang, err := lc.languages.SetLanguageEnabled(c.Request.Context(), code, enabled)
	lc.auditor.LogAction(newAction(c, entities.AuditEventLanguage, action, "language", code, ""), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lang)
}

// SetDefault makes a language the default, enabling it if needed.
// POST /api/admin/languages/:code/default
func (lc *AdminLanguagesController) SetDefault(c *gin.Context) {
	code := codeParam(c)

	lang, err := lc.languages.SetDefaultLanguage(c.Request.Context(), code)
	lc.auditor.LogAction(newAction(c, entities.AuditEventLanguage, "language_default", "language", code, ""), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lang)
}

// Delete removes a language. The default cannot be removed.
// DELETE /api/admin/languages/:code
func (lc *AdminLanguagesController) Delete(c *gin.Context) {
	code := codeParam(c)

	err := lc.languages.RemoveLanguage(c.Request.Context(), code)
	lc.auditor.LogAction(newAction(c, entities.AuditEventLanguage, "language_remove", "language", code, ""), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

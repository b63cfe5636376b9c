package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/scripture"
)

const maxImportVerses = 1000

type AdminVersesController struct {
	verses  VerseEditor
	auditor Auditor
}

func NewAdminVersesController(verses VerseEditor, auditor Auditor) *AdminVersesController {
	return &AdminVersesController{verses: verses, auditor: auditor}
}

// Create adds a verse.
// POST /api/admin/verses
func (ac *AdminVersesController) Create(c *gin.Context) {
	var cmd scripture.VerseCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := cmd.Validate(); err != nil {
		respondError(c, err)
		return
	}

	v, err := ac.verses.AddVerse(c.Request.Context(), cmd.ToVerse())
	ref := scripture.Ref{Chapter: cmd.Chapter, Verse: cmd.Verse}
	ac.auditor.LogAction(newAction(c, entities.AuditEventVerse, "verse_add", "verse", ref.String(), "Added "+ref.Label()), err)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, v)
}

// Update merges translations and/or replaces the meaning.
// PATCH /api/admin/verses/:chapter/:verse
func (ac *AdminVersesController) Update(c *gin.Context) {
	ref, ok := parseRefParams(c)
	if !ok {
		return
	}
	var cmd scripture.VersePatchCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := cmd.Validate(); err != nil {
		respondError(c, err)
		return
	}

	v, err := ac.verses.EditVerse(c.Request.Context(), ref, cmd.ToPatch())
	ac.auditor.LogAction(newAction(c, entities.AuditEventVerse, "verse_edit", "verse", ref.String(), "Edited "+ref.Label()), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Delete removes a verse.
// DELETE /api/admin/verses/:chapter/:verse
func (ac *AdminVersesController) Delete(c *gin.Context) {
	ref, ok := parseRefParams(c)
	if !ok {
		return
	}

	err := ac.verses.RemoveVerse(c.Request.Context(), ref)
	ac.auditor.LogAction(newAction(c, entities.AuditEventVerse, "verse_remove", "verse", ref.String(), "Removed "+ref.Label()), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Import adds verses in bulk, skipping references that already exist.
// POST /api/admin/verses/import
func (ac *AdminVersesController) Import(c *gin.Context) {
	var cmds []scripture.VerseCommand
	if err := c.ShouldBindJSON(&cmds); err != nil {
		respondBadRequest(c, "body must be a JSON array of verses")
		return
	}
	if len(cmds) == 0 || len(cmds) > maxImportVerses {
		respondBadRequest(c, fmt.Sprintf("import must contain between 1 and %d verses", maxImportVerses))
		return
	}

	result, err := ac.verses.Import(c.Request.Context(), cmds)
	description := fmt.Sprintf("Imported %d verses (%d skipped, %d invalid)", result.Added, result.Skipped, len(result.Errors))
	ac.auditor.LogAction(newAction(c, entities.AuditEventVerse, "verse_import", "verse", "", description), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

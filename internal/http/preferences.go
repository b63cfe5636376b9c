package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/preferences"
)

// PreferencesController serves a reader's settings and notification feed.
type PreferencesController struct {
	prefs ReaderPreferences
	feed  NotificationFeed
}

func NewPreferencesController(prefs ReaderPreferences, feed NotificationFeed) *PreferencesController {
	return &PreferencesController{prefs: prefs, feed: feed}
}

// Get returns the reader's settings, defaults included.
// GET /api/me/settings
func (pc *PreferencesController) Get(c *gin.Context) {
	prefs, err := pc.prefs.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "load settings")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Update changes the fields present in the body.
// PATCH /api/me/settings
func (pc *PreferencesController) Update(c *gin.Context) {
	var patch preferences.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid settings body")
		return
	}

	prefs, err := pc.prefs.Update(c.Request.Context(), GetUserID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Notifications lists sent notifications, leaving out daily reminders for
// readers who turned them off.
// GET /api/me/notifications?limit=&offset=
func (pc *PreferencesController) Notifications(c *gin.Context) {
	limit, offset := parsePagination(c, 25, 100)

	ctx := c.Request.Context()
	daily, err := pc.prefs.WantsDailyReminders(ctx, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "load settings")
		return
	}

	items, err := pc.feed.Feed(ctx, daily, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}
	if items == nil {
		items = []entities.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

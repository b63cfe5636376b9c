package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/database/journeys"
	"github.com/mrlokans/shloka/internal/entities"
)

// StatsResponse is the admin overview.
type StatsResponse struct {
	journeys.Stats
	ActiveSessions int `json:"active_sessions"`
}

// ActiveCounter reports how many reader sessions are cached.
type ActiveCounter interface {
	Active() int
}

type AuditController struct {
	auditor  Auditor
	stats    StatsSource
	sessions ActiveCounter
}

func NewAuditController(auditor Auditor, stats StatsSource, sessions ActiveCounter) *AuditController {
	return &AuditController{
		auditor:  auditor,
		stats:    stats,
		sessions: sessions,
	}
}

// Events returns paginated audit events as JSON
// GET /api/admin/audit?type=&limit=&offset=
func (ac *AuditController) Events(c *gin.Context) {
	limit, offset := parsePagination(c, 25, 100)
	eventType := entities.AuditEventType(c.Query("type"))

	events, total, err := ac.auditor.Events(eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}
	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}

// Stats summarises reader activity.
// GET /api/admin/stats
func (ac *AuditController) Stats(c *gin.Context) {
	stats, err := ac.stats.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "reader stats")
		return
	}
	resp := StatsResponse{Stats: stats}
	if ac.sessions != nil {
		resp.ActiveSessions = ac.sessions.Active()
	}
	c.JSON(http.StatusOK, resp)
}

package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/cache"
	"github.com/mrlokans/shloka/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// Pinger is an optional dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db      *database.Database
	cache   Pinger
	version string
}

func NewHealthController(db *database.Database, cache Pinger, version string) *HealthController {
	return &HealthController{
		db:      db,
		cache:   cache,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
		status = "unhealthy"
	}

	// The verse cache is optional; a failure degrades but does not fail.
	if h.cache != nil {
		switch err := h.cache.Ping(c.Request.Context()); {
		case err == nil:
			checks["cache"] = "ok"
		case errors.Is(err, cache.ErrDisabled):
			checks["cache"] = "disabled"
		default:
			checks["cache"] = "error: " + err.Error()
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

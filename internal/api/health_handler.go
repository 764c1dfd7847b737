package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/database"
)

// HealthHandler reports service health
type HealthHandler struct {
	db    *database.DB
	cache cache.Cache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, store cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: store}
}

// GetHealth returns database and cache status. A degraded cache does not
// fail the check since all reads fall through to the database.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.HealthCheck(); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	cacheStatus := "ok"
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		cacheStatus = "degraded"
	}

	stats := h.db.GetStats()

	c.JSON(status, gin.H{
		"database": dbStatus,
		"cache":    cacheStatus,
		"pool": gin.H{
			"open":    stats.OpenConnections,
			"in_use":  stats.InUse,
			"idle":    stats.Idle,
			"max":     stats.MaxOpenConnections,
		},
		"timestamp": time.Now().UTC(),
	})
}

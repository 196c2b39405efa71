package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oms/avatax/internal/infrastructure/persistence"
)

// DatabaseStatus reports database connectivity and pool statistics
type DatabaseStatus interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db DatabaseStatus
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseStatus) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers health endpoints on the given group
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health is a liveness probe
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{"status": "ok"})
}

// Ready is a readiness probe that checks the database connection and
// reports connection pool statistics
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		h.Success(c, gin.H{"status": "ok"})
		return
	}

	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	resp := gin.H{"status": "ok"}
	if stats, err := h.db.Stats(); err == nil {
		resp["database"] = gin.H{
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"max_open_connections": stats.MaxOpenConnections,
		}
	}
	h.Success(c, resp)
}

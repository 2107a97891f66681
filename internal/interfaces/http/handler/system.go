package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/finnov/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping() error
}

// SystemHandler handles liveness and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system endpoints on the API group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)

	system := rg.Group("/system")
	{
		system.GET("/info", h.Info)
		system.GET("/ready", h.Ready)
	}
}

// Health returns a static liveness signal.
// GET /health -> {"ok": true}
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{OK: true})
}

// ReadyResponse reports dependency health
type ReadyResponse struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Ready checks that the database is reachable.
func (h *SystemHandler) Ready(c *gin.Context) {
	resp := ReadyResponse{
		OK:       true,
		Database: "up",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.OK = false
			resp.Database = "down"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// InfoResponse represents basic build information
type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// Info returns service identification.
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Name:      "Finnov Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
	})
}

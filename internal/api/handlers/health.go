package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

type HealthHandler struct {
	db        *database.DB
	cache     services.Cache
	scheduler *services.Scheduler
	hub       *services.WebSocketHub
}

func NewHealthHandler(db *database.DB, cache services.Cache, scheduler *services.Scheduler, hub *services.WebSocketHub) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, scheduler: scheduler, hub: hub}
}

// GetHealth reports 503 when the database is unreachable. A tripped cache
// breaker only degrades the service.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "fantasy-golf",
	}

	if err := h.db.HealthCheck(); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["database"] = err.Error()
	} else {
		body["database"] = "ok"
	}

	if redisCache, ok := h.cache.(*services.CacheService); ok {
		state := redisCache.State().String()
		body["cache"] = state
		if state != "closed" && status == http.StatusOK {
			body["status"] = "degraded"
		}
	} else {
		body["cache"] = "memory"
	}

	if h.scheduler != nil {
		body["scheduler"] = h.scheduler.Status()
	}
	if h.hub != nil {
		body["websocket_clients"] = h.hub.ClientCount()
	}

	c.JSON(status, body)
}

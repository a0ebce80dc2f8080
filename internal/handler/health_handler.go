package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	database Pinger
	cache    Pinger
}

// NewHealthHandler accepts a nil cache when redis is disabled.
func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	res := HealthResponse{Status: "healthy", Database: "connected", Redis: "disabled"}

	if h.cache != nil {
		res.Redis = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			slog.Warn("redis health check failed", "error", err)
			res.Status = "degraded"
			res.Redis = "disconnected"
		}
	}

	if err := h.database.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		res.Status = "unhealthy"
		res.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, res)
		return
	}

	c.JSON(http.StatusOK, res)
}

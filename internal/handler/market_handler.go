package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/market"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/gin-gonic/gin"
)

type LiveQuoter interface {
	Quote(ctx context.Context) market.LiveQuote
}

type HistoryStore interface {
	RecentSnapshots(ctx context.Context, limit int) ([]model.PriceSnapshot, error)
}

type MarketHandler struct {
	live    LiveQuoter
	history HistoryStore
	now     func() time.Time
}

func NewMarketHandler(live LiveQuoter, history HistoryStore) *MarketHandler {
	return &MarketHandler{live: live, history: history, now: time.Now}
}

func (h *MarketHandler) GetLive(c *gin.Context) {
	c.JSON(http.StatusOK, h.live.Quote(c.Request.Context()))
}

func (h *MarketHandler) GetHistory(c *gin.Context) {
	limit := getQueryLimit(c)

	bucket := c.DefaultQuery("bucket", market.BucketRaw)
	if bucket != market.BucketRaw && bucket != market.BucketDay {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bucket must be raw or day"})
		return
	}

	snapshots, err := h.history.RecentSnapshots(c.Request.Context(), limit)
	if err != nil {
		slog.Error("error fetching price history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, market.HistoryPoints(snapshots, bucket))
}

func (h *MarketHandler) GetStatus(c *gin.Context) {
	status := market.StatusAt(h.now())
	c.JSON(http.StatusOK, StatusResponse{Status: string(status), Label: status.Label()})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}
	return parsed
}

func getQueryLimit(c *gin.Context) int {
	limit := getQueryInt("limit", market.DefaultHistoryLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", market.DefaultHistoryLimit)
		return market.DefaultHistoryLimit
	}

	if limit > market.MaxHistoryLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", market.MaxHistoryLimit)
		return market.MaxHistoryLimit
	}
	return limit
}

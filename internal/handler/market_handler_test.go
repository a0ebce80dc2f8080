package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/market"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"
)

type fakeLive struct {
	quote market.LiveQuote
}

func (f *fakeLive) Quote(ctx context.Context) market.LiveQuote { return f.quote }

type fakeHistory struct {
	snapshots []model.PriceSnapshot
	err       error
	limit     int
}

func (f *fakeHistory) RecentSnapshots(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	f.limit = limit
	return f.snapshots, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func newMarketRouter(h *MarketHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/market/live", h.GetLive)
	r.GET("/market/history", h.GetHistory)
	r.GET("/market/status", h.GetStatus)
	return r
}

func TestGetLive(t *testing.T) {
	change := 0.45
	live := &fakeLive{quote: market.LiveQuote{Price: 4319.53, Gram: 138.88, Available: true, Change24h: &change, Source: "goldapi"}}
	r := newMarketRouter(NewMarketHandler(live, &fakeHistory{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/market/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 4319.53, res["price"])
	assert.Equal(t, 0.45, res["change_24h"])
	assert.Equal(t, true, res["available"])
	assert.Equal(t, false, res["stale"])
}

func TestGetHistory(t *testing.T) {
	day := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	history := &fakeHistory{snapshots: []model.PriceSnapshot{
		{Timestamp: day.Add(8 * time.Hour), PriceUSD: decimal.NewFromInt(4000), PriceGBP: decimal.NewFromInt(3160)},
		{Timestamp: day.Add(20 * time.Hour), PriceUSD: decimal.NewFromInt(4050), PriceGBP: decimal.NewFromInt(3200)},
	}}
	r := newMarketRouter(NewMarketHandler(&fakeLive{}, history))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/market/history", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, market.DefaultHistoryLimit, history.limit)

	var raw []market.HistoryPoint
	json.Unmarshal(w.Body.Bytes(), &raw)
	assert.Equal(t, 2, len(raw))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/market/history?bucket=day&limit=5000", nil))

	var daily []market.HistoryPoint
	json.Unmarshal(w.Body.Bytes(), &daily)
	assert.Equal(t, 1, len(daily))
	assert.Equal(t, 4050.0, daily[0].PriceUSD)
	assert.Equal(t, market.MaxHistoryLimit, history.limit)
}

func TestGetHistoryErrors(t *testing.T) {
	r := newMarketRouter(NewMarketHandler(&fakeLive{}, &fakeHistory{err: errors.New("DB down")}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/market/history", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/market/history?bucket=week", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistoryLimitDefaults(t *testing.T) {
	history := &fakeHistory{}
	r := newMarketRouter(NewMarketHandler(&fakeLive{}, history))

	for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-4"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/market/history"+q, nil))
		assert.Equal(t, market.DefaultHistoryLimit, history.limit)
	}
}

func TestGetStatus(t *testing.T) {
	h := NewMarketHandler(&fakeLive{}, &fakeHistory{})
	h.now = func() time.Time { return time.Date(2026, 2, 7, 15, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	newMarketRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/market/status", nil))

	var res StatusResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "closed", res.Status)
	assert.Equal(t, "Closed (Weekend)", res.Label)
}

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		cache  Pinger
		code   int
		status string
		redis  string
	}{
		{"all up", &fakePinger{}, &fakePinger{}, http.StatusOK, "healthy", "connected"},
		{"no redis", &fakePinger{}, nil, http.StatusOK, "healthy", "disabled"},
		{"redis down", &fakePinger{}, &fakePinger{err: errors.New("refused")}, http.StatusOK, "degraded", "disconnected"},
		{"db down", &fakePinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable, "unhealthy", "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.db, tt.cache).GetHealth)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tt.code, w.Code)
			var res HealthResponse
			json.Unmarshal(w.Body.Bytes(), &res)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.redis, res.Redis)
		})
	}
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/YasirGaji/thegoldmetrics/internal/app"
	"github.com/YasirGaji/thegoldmetrics/internal/config"
	"github.com/YasirGaji/thegoldmetrics/internal/handler"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/internal/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error building app: %v", err)
	}
	defer a.Close()

	cronHandler := handler.NewCronHandler(a.Jobs, a.Dispatcher)
	chatHandler := handler.NewChatHandler(a.Responder)
	marketHandler := handler.NewMarketHandler(a.Live, a.Prices)

	var cache handler.Pinger
	if a.Redis != nil {
		cache = repository.NewLivePriceCache(a.Redis, cfg.LiveTTL)
	}
	healthHandler := handler.NewHealthHandler(a.Prices, cache)

	r := gin.New()
	r.Use(gin.Logger(), handler.Recovery())

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	cronRoutes := r.Group("/cron", handler.CronAuth(cfg.CronSecret))
	cronRoutes.GET("/dispatcher", cronHandler.Dispatch)
	cronRoutes.GET("/record-price", cronHandler.RunJob(model.JobRecordPrice))
	cronRoutes.GET("/daily-post", cronHandler.RunJob(model.JobDailyPost))
	cronRoutes.GET("/ingest-news", cronHandler.RunJob(model.JobIngestNews))

	r.POST("/chat", chatHandler.Chat)
	r.GET("/market/live", marketHandler.GetLive)
	r.GET("/market/history", marketHandler.GetHistory)
	r.GET("/market/status", marketHandler.GetStatus)
	r.GET("/health", healthHandler.GetHealth)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

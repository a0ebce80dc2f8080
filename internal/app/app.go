// Package app wires configuration into the stores, clients and services
// shared by every binary.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/YasirGaji/thegoldmetrics/db"
	"github.com/YasirGaji/thegoldmetrics/internal/chat"
	"github.com/YasirGaji/thegoldmetrics/internal/config"
	"github.com/YasirGaji/thegoldmetrics/internal/cron"
	"github.com/YasirGaji/thegoldmetrics/internal/ingest"
	"github.com/YasirGaji/thegoldmetrics/internal/market"
	"github.com/YasirGaji/thegoldmetrics/internal/rag"
	"github.com/YasirGaji/thegoldmetrics/internal/repository"
	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
	"github.com/YasirGaji/thegoldmetrics/pkg/llm"
	"github.com/YasirGaji/thegoldmetrics/pkg/news"
	"github.com/YasirGaji/thegoldmetrics/pkg/social"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config

	DB    *sql.DB
	Redis *redis.Client

	Prices *repository.PriceRepository
	News   *repository.NewsRepository

	Jobs       *cron.Jobs
	Dispatcher *cron.Dispatcher
	Responder  *chat.Responder
	Live       *market.LiveService
}

func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to DB: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     database,
		Prices: repository.NewPriceRepository(database),
		News:   repository.NewNewsRepository(database),
	}

	// Redis only backs the live price cache, so a bad connection degrades
	// instead of stopping startup.
	a.Redis, err = db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, live price cache disabled", "error", err)
		a.Redis = nil
	}

	gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiChatModel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("embedding client: %w", err)
	}

	completer, err := NewCompleter(ctx, cfg, gemini)
	if err != nil {
		a.Close()
		return nil, err
	}
	embedder := llm.NewGeminiEmbedder(gemini, cfg.EmbeddingModel, cfg.EmbeddingDimension, cfg.EmbedRPS)

	chain := NewPriceChain(cfg)
	if chain.Len() == 0 {
		slog.Warn("no price providers configured, price jobs will fail")
	}

	ingestor := ingest.NewIngestor(NewNewsSources(cfg), a.News, embedder, cfg.NewsItemsPerFeed)
	retriever := rag.NewRetriever(embedder, a.News)

	a.Jobs = cron.NewJobs(chain, a.Prices, cron.NewPostFormatter(completer), NewBroadcaster(cfg), ingestor)
	a.Dispatcher = cron.NewDispatcher(a.Jobs, cron.Schedule{
		DailyPostHour:    cfg.DailyPostHour,
		RecordPriceHour:  cfg.RecordPriceHour,
		IngestEveryHours: cfg.IngestEveryHours,
	})
	a.Responder = chat.NewResponder(completer, a.Prices, retriever)

	var cache market.ReportCache
	if a.Redis != nil {
		cache = repository.NewLivePriceCache(a.Redis, cfg.LiveTTL)
	}
	a.Live = market.NewLiveService(cache, chain, a.Prices)

	slog.Info("app ready",
		"llm_provider", cfg.LLMProvider, "llm_model", completer.Model(),
		"embedding_model", embedder.Model(), "price_providers", chain.Len())
	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// NewCompleter picks the chat backend for LLM_PROVIDER. The gemini provider
// reuses the embedding client when one is passed.
func NewCompleter(ctx context.Context, cfg *config.Config, gemini *llm.GeminiClient) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey), nil
	default:
		if gemini != nil {
			return gemini, nil
		}
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiChatModel)
	}
}

// NewPriceChain builds the provider chain in PRICE_PROVIDERS order, leaving
// out providers without an API key.
func NewPriceChain(cfg *config.Config) *gold.Chain {
	fx := gold.NewFXClient(cfg.ExchangeURL)

	var providers []gold.Provider
	for _, name := range cfg.PriceProviders {
		switch name {
		case "goldapi":
			if cfg.GoldAPIKey == "" {
				slog.Warn("GOLD_API_KEY not set, skipping provider", "provider", name)
				continue
			}
			providers = append(providers, gold.NewGoldAPIProvider(cfg.GoldAPIKey, cfg.GoldAPIURL, fx))
		case "metalprice":
			if cfg.MetalPriceKey == "" {
				slog.Warn("METAL_PRICE_API_KEY not set, skipping provider", "provider", name)
				continue
			}
			providers = append(providers, gold.NewMetalPriceProvider(cfg.MetalPriceKey, cfg.MetalPriceURL, fx))
		default:
			slog.Warn("unknown price provider, skipping", "provider", name)
		}
	}
	return gold.NewChain(providers...)
}

func NewNewsSources(cfg *config.Config) []news.Source {
	feeds := cfg.NewsFeeds
	if len(feeds) == 0 {
		feeds = news.DefaultRSSFeeds
	}

	sources := make([]news.Source, 0, len(feeds)+2)
	for _, url := range feeds {
		sources = append(sources, news.NewRSSClient(url))
	}
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnHubClient(cfg.FinnhubAPIKey, ""))
	}
	if cfg.AlphaVantageAPIKey != "" {
		sources = append(sources, news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey))
	}
	return sources
}

func NewBroadcaster(cfg *config.Config) *social.Broadcaster {
	return social.NewBroadcaster(
		social.NewTwitterClient(social.TwitterCredentials{
			APIKey:       cfg.TwitterAPIKey,
			APISecret:    cfg.TwitterAPISecret,
			AccessToken:  cfg.TwitterAccessToken,
			AccessSecret: cfg.TwitterAccessSecret,
		}, ""),
		social.NewThreadsClient(cfg.ThreadsUserID, cfg.ThreadsAccessToken, ""),
	)
}

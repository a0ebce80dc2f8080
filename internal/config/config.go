package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	CronSecret  string

	DatabaseURL string
	RedisURL    string
	LiveTTL     time.Duration

	PriceProviders []string
	GoldAPIKey     string
	GoldAPIURL     string
	MetalPriceKey  string
	MetalPriceURL  string
	ExchangeURL    string

	LLMProvider     string
	GeminiAPIKey    string
	GeminiChatModel string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	EmbeddingModel     string
	EmbeddingDimension int
	EmbedRPS           float64

	NewsFeeds          []string
	NewsItemsPerFeed   int
	FinnhubAPIKey      string
	AlphaVantageAPIKey string

	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	ThreadsUserID       string
	ThreadsAccessToken  string

	DailyPostHour    int
	RecordPriceHour  int
	IngestEveryHours int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getString("PORT", "8080"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		CronSecret:  os.Getenv("CRON_SECRET"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		PriceProviders: getList("PRICE_PROVIDERS", []string{"goldapi", "metalprice"}),
		GoldAPIKey:     os.Getenv("GOLD_API_KEY"),
		GoldAPIURL:     os.Getenv("GOLD_API_URL"),
		MetalPriceKey:  os.Getenv("METAL_PRICE_API_KEY"),
		MetalPriceURL:  os.Getenv("METAL_PRICE_API_URL"),
		ExchangeURL:    os.Getenv("EXCHANGE_RATE_API_URL"),

		LLMProvider:     strings.ToLower(getString("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiChatModel: getString("GEMINI_CHAT_MODEL", "gemini-flash-latest"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		EmbeddingModel: getString("EMBEDDING_MODEL", "gemini-embedding-001"),

		NewsFeeds:          getList("NEWS_FEEDS", nil),
		FinnhubAPIKey:      os.Getenv("FINNHUB_API_KEY"),
		AlphaVantageAPIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),

		TwitterAPIKey:       os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:    os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
		ThreadsUserID:       os.Getenv("THREADS_USER_ID"),
		ThreadsAccessToken:  os.Getenv("THREADS_ACCESS_TOKEN"),
	}

	var err error
	if cfg.LiveTTL, err = getDuration("LIVE_PRICE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDimension, err = getInt("EMBEDDING_DIMENSION", 768); err != nil {
		return nil, err
	}
	if cfg.EmbedRPS, err = getFloat("EMBED_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.NewsItemsPerFeed, err = getInt("NEWS_ITEMS_PER_FEED", 3); err != nil {
		return nil, err
	}
	if cfg.DailyPostHour, err = getInt("DAILY_POST_HOUR", 14); err != nil {
		return nil, err
	}
	if cfg.RecordPriceHour, err = getInt("RECORD_PRICE_HOUR", 21); err != nil {
		return nil, err
	}
	if cfg.IngestEveryHours, err = getInt("INGEST_EVERY_HOURS", 4); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for name, hour := range map[string]int{"DAILY_POST_HOUR": c.DailyPostHour, "RECORD_PRICE_HOUR": c.RecordPriceHour} {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%s must be between 0 and 23, got %d", name, hour)
		}
	}
	if c.IngestEveryHours < 0 {
		return fmt.Errorf("INGEST_EVERY_HOURS must not be negative, got %d", c.IngestEveryHours)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDimension)
	}
	switch c.LLMProvider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getList(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

package app

import (
	"context"
	"testing"

	"github.com/YasirGaji/thegoldmetrics/internal/config"
	"github.com/YasirGaji/thegoldmetrics/pkg/llm"
	"github.com/YasirGaji/thegoldmetrics/pkg/news"
	"github.com/go-playground/assert/v2"
)

func TestNewPriceChainSkipsProvidersWithoutKeys(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want int
	}{
		{"both keys", config.Config{PriceProviders: []string{"goldapi", "metalprice"}, GoldAPIKey: "g", MetalPriceKey: "m"}, 2},
		{"one key", config.Config{PriceProviders: []string{"goldapi", "metalprice"}, MetalPriceKey: "m"}, 1},
		{"unknown provider", config.Config{PriceProviders: []string{"kitco"}, GoldAPIKey: "g"}, 0},
		{"nothing configured", config.Config{PriceProviders: []string{"goldapi"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPriceChain(&tt.cfg).Len())
		})
	}
}

func TestNewNewsSources(t *testing.T) {
	sources := NewNewsSources(&config.Config{})
	assert.Equal(t, len(news.DefaultRSSFeeds), len(sources))

	sources = NewNewsSources(&config.Config{
		NewsFeeds:          []string{"https://a.example/rss"},
		FinnhubAPIKey:      "f",
		AlphaVantageAPIKey: "a",
	})
	assert.Equal(t, 3, len(sources))
	assert.Equal(t, "FinnHub", sources[1].Name())
}

func TestNewCompleterRequiresKey(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "gemini"} {
		t.Run(provider, func(t *testing.T) {
			_, err := NewCompleter(context.Background(), &config.Config{LLMProvider: provider}, nil)
			assert.NotEqual(t, nil, err)
		})
	}
}

func TestNewCompleterReusesGeminiClient(t *testing.T) {
	shared, err := llm.NewGeminiClient(context.Background(), "test-key", "")
	assert.Equal(t, nil, err)

	completer, err := NewCompleter(context.Background(), &config.Config{LLMProvider: "gemini"}, shared)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, completer == llm.Completer(shared))

	completer, err = NewCompleter(context.Background(), &config.Config{LLMProvider: "openai", OpenAIAPIKey: "sk-test"}, shared)
	assert.Equal(t, nil, err)
	_, isOpenAI := completer.(*llm.OpenAIClient)
	assert.Equal(t, true, isOpenAI)
}

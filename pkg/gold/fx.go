package gold

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const DefaultFXBaseURL = "https://api.exchangerate-api.com"

type FXClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFXClient(baseURL string) *FXClient {
	if baseURL == "" {
		baseURL = DefaultFXBaseURL
	}
	return &FXClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FXClient) USDToGBP(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v4/latest/USD", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fx fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("fx fetch: status %d", resp.StatusCode)
	}

	var raw struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return 0, fmt.Errorf("fx decode: %w", err)
	}

	rate := raw.Rates["GBP"]
	if rate <= 0 {
		return 0, fmt.Errorf("fx decode: missing GBP rate")
	}
	return rate, nil
}

type rateSource interface {
	USDToGBP(ctx context.Context) (float64, error)
}

// gbpRate never fails: a broken FX lookup falls back to FallbackUSDToGBP.
func gbpRate(ctx context.Context, fx rateSource, provider string) (float64, bool) {
	if fx == nil {
		return FallbackUSDToGBP, true
	}
	rate, err := fx.USDToGBP(ctx)
	if err != nil {
		slog.Warn("exchange rate lookup failed, using fallback rate", "provider", provider, "fallback", FallbackUSDToGBP, "error", err)
		return FallbackUSDToGBP, true
	}
	return rate, false
}

package gold

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const DefaultGoldAPIBaseURL = "https://www.goldapi.io"

type GoldAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fx         rateSource
	now        func() time.Time
}

func NewGoldAPIProvider(apiKey, baseURL string, fx *FXClient) *GoldAPIProvider {
	if baseURL == "" {
		baseURL = DefaultGoldAPIBaseURL
	}
	p := &GoldAPIProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	if fx != nil {
		p.fx = fx
	}
	return p
}

func (p *GoldAPIProvider) Name() string {
	return SourceGoldAPI
}

type goldAPIResponse struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	Error     string  `json:"error"`
}

func (p *GoldAPIProvider) FetchReport(ctx context.Context) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/XAU/USD", nil)
	if err != nil {
		return nil, newProviderError(p.Name(), ErrNetwork, err)
	}
	req.Header.Set("x-access-token", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var raw goldAPIResponse
	if err := getJSON(p.httpClient, req, p.Name(), &raw); err != nil {
		return nil, err
	}

	if raw.Error != "" {
		if mentionsQuota(raw.Error) {
			return nil, newProviderError(p.Name(), ErrQuota, fmt.Errorf("%s", raw.Error))
		}
		return nil, newProviderError(p.Name(), ErrStatus, fmt.Errorf("%s", raw.Error))
	}

	if raw.Price <= 0 {
		return nil, newProviderError(p.Name(), ErrSchema, fmt.Errorf("no USD price in response"))
	}

	at := p.now()
	if raw.Timestamp > 0 {
		at = time.Unix(raw.Timestamp, 0)
	}

	rate, fallback := gbpRate(ctx, p.fx, p.Name())
	return newReport(p.Name(), raw.Price, rate, fallback, at), nil
}

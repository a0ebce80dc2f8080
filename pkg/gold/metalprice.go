package gold

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultMetalPriceBaseURL = "https://api.metalpriceapi.com/v1"

// MetalPriceAPI error codes that mean the monthly allowance is spent.
var metalPriceQuotaCodes = map[int]bool{104: true, 105: true}

type MetalPriceProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fx         rateSource
	now        func() time.Time
}

func NewMetalPriceProvider(apiKey, baseURL string, fx *FXClient) *MetalPriceProvider {
	if baseURL == "" {
		baseURL = DefaultMetalPriceBaseURL
	}
	p := &MetalPriceProvider{
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

func (p *MetalPriceProvider) Name() string {
	return SourceMetalPrice
}

type metalPriceResponse struct {
	Success   *bool              `json:"success"`
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
	Error     *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// FetchReport asks for XAU (and GBP) against a USD base. The API quotes ounces
// of gold per dollar, so the ounce price is the inverse of the XAU rate.
func (p *MetalPriceProvider) FetchReport(ctx context.Context) (*Report, error) {
	q := url.Values{}
	q.Set("api_key", p.apiKey)
	q.Set("base", "USD")
	q.Set("currencies", "XAU,GBP")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return nil, newProviderError(p.Name(), ErrNetwork, err)
	}

	var raw metalPriceResponse
	if err := getJSON(p.httpClient, req, p.Name(), &raw); err != nil {
		return nil, err
	}

	if raw.Success != nil && !*raw.Success {
		if raw.Error != nil && (metalPriceQuotaCodes[raw.Error.Code] || mentionsQuota(raw.Error.Info)) {
			return nil, newProviderError(p.Name(), ErrQuota, fmt.Errorf("code %d: %s", raw.Error.Code, raw.Error.Info))
		}
		if raw.Error != nil {
			return nil, newProviderError(p.Name(), ErrStatus, fmt.Errorf("code %d: %s", raw.Error.Code, raw.Error.Info))
		}
		return nil, newProviderError(p.Name(), ErrStatus, fmt.Errorf("request unsuccessful"))
	}

	xau, ok := raw.Rates["XAU"]
	if !ok || xau <= 0 {
		return nil, newProviderError(p.Name(), ErrSchema, fmt.Errorf("missing or invalid XAU rate"))
	}
	ounceUSD := 1 / xau

	at := p.now()
	if raw.Timestamp > 0 {
		at = time.Unix(raw.Timestamp, 0)
	}

	if gbp, ok := raw.Rates["GBP"]; ok && gbp > 0 {
		return newReport(p.Name(), ounceUSD, gbp, false, at), nil
	}

	rate, fallback := gbpRate(ctx, p.fx, p.Name())
	return newReport(p.Name(), ounceUSD, rate, fallback, at), nil
}

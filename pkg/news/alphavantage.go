package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const alphaVantageTopics = "economy_monetary,financial_markets"

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Fetch(ctx context.Context, limit int) ([]Item, error) {
	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("topics", alphaVantageTopics)
	q.Set("sort", "LATEST")
	q.Set("limit", fmt.Sprint(limit))
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.alphavantage.co/query?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// Throttled or invalid requests come back 200 with only a note.
	if len(raw.Feed) == 0 && raw.Information != "" {
		return nil, fmt.Errorf("alphavantage: %s", raw.Information)
	}

	items := make([]Item, 0, len(raw.Feed))
	for _, it := range raw.Feed {
		if limit > 0 && len(items) >= limit {
			break
		}

		publishedAt, err := time.Parse("20060102T150405", it.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		items = append(items, Item{
			Title:       it.Title,
			URL:         it.URL,
			Snippet:     it.Summary,
			PublishedAt: publishedAt,
			Source:      c.Name(),
		})
	}

	return items, nil
}

type avResponse struct {
	Feed        []avFeedItem `json:"feed"`
	Information string       `json:"Information"`
}

type avFeedItem struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	TimePublished string `json:"time_published"`
}

package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client   *finnhub.DefaultApiService
	category string
}

// NewFinnHubClient reads market news from category ("forex" carries most
// precious-metal headlines).
func NewFinnHubClient(apiKey, category string) *FinnHubClient {
	if category == "" {
		category = "forex"
	}
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client, category: category}
}

func (c *FinnHubClient) Fetch(ctx context.Context, limit int) ([]Item, error) {
	res, _, err := c.client.MarketNews(ctx).Category(c.category).Execute()
	if err != nil {
		return nil, err
	}

	var items []Item

	for _, news := range res {
		if limit > 0 && len(items) >= limit {
			break
		}

		it := Item{
			Source: c.Name(),
		}

		if news.Headline != nil {
			it.Title = *news.Headline
		}

		if news.Summary != nil {
			it.Snippet = *news.Summary
		}

		if news.Url != nil {
			it.URL = *news.Url
		}

		if news.Datetime != nil {
			it.PublishedAt = time.Unix(*news.Datetime, 0).UTC()
		}

		items = append(items, it)
	}

	return items, nil
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

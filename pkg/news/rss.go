package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Some publishers answer 403 to non-browser agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var DefaultRSSFeeds = []string{
	"https://www.investing.com/rss/news_285.rss",
	"https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=15839069",
	"https://finance.yahoo.com/news/rssindex",
}

type RSSClient struct {
	feedURL string
	parser  *gofeed.Parser
}

func NewRSSClient(feedURL string) *RSSClient {
	parser := gofeed.NewParser()
	parser.UserAgent = browserUserAgent
	parser.Client = &http.Client{Timeout: 10 * time.Second}
	return &RSSClient{feedURL: feedURL, parser: parser}
}

func (c *RSSClient) Name() string {
	return c.feedURL
}

func (c *RSSClient) Fetch(ctx context.Context, limit int) ([]Item, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss fetch: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}

		var published time.Time
		if it.PublishedParsed != nil {
			published = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			published = *it.UpdatedParsed
		}

		snippet := it.Description
		if snippet == "" {
			snippet = it.Content
		}

		items = append(items, Item{
			Title:       it.Title,
			URL:         it.Link,
			Snippet:     stripHTML(snippet),
			PublishedAt: published,
			Source:      c.Name(),
		})
	}

	return items, nil
}

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/pkg/llm"
	"github.com/YasirGaji/thegoldmetrics/pkg/news"
)

const DefaultItemsPerFeed = 3

type ArticleStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	SaveArticle(ctx context.Context, a *model.NewsArticle) (bool, error)
}

// Ingestor pulls the newest items of every source, embeds the unseen ones and
// stores them. Running it again on the same feeds only counts skips.
type Ingestor struct {
	sources      []news.Source
	store        ArticleStore
	embedder     llm.Embedder
	itemsPerFeed int
	now          func() time.Time
}

func NewIngestor(sources []news.Source, store ArticleStore, embedder llm.Embedder, itemsPerFeed int) *Ingestor {
	if itemsPerFeed <= 0 {
		itemsPerFeed = DefaultItemsPerFeed
	}
	return &Ingestor{
		sources:      sources,
		store:        store,
		embedder:     embedder,
		itemsPerFeed: itemsPerFeed,
		now:          time.Now,
	}
}

func (in *Ingestor) IngestAll(ctx context.Context) model.IngestionResult {
	result := model.IngestionResult{Details: []string{}}

	for _, src := range in.sources {
		in.ingestSource(ctx, src, &result)
	}

	slog.Info("news ingestion complete",
		"processed", result.TotalProcessed, "saved", result.Saved,
		"skipped", result.Skipped, "errors", result.Errors)
	return result
}

func (in *Ingestor) ingestSource(ctx context.Context, src news.Source, result *model.IngestionResult) {
	items, err := src.Fetch(ctx, in.itemsPerFeed)
	if err != nil {
		slog.Error("feed failed", "source", src.Name(), "error", err)
		result.Errors++
		result.Details = append(result.Details, fmt.Sprintf("Feed failed (%s): %v", src.Name(), err))
		return
	}

	if len(items) == 0 {
		result.Details = append(result.Details, fmt.Sprintf("Empty feed: %s", src.Name()))
		return
	}

	if len(items) > in.itemsPerFeed {
		items = items[:in.itemsPerFeed]
	}

	for _, item := range items {
		if item.Title == "" || item.URL == "" {
			continue
		}
		result.TotalProcessed++

		if err := in.ingestItem(ctx, src, item, result); err != nil {
			slog.Error("article ingestion failed", "source", src.Name(), "url", item.URL, "error", err)
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("Error saving %q: %v", item.Title, err))
		}
	}
}

func (in *Ingestor) ingestItem(ctx context.Context, src news.Source, item news.Item, result *model.IngestionResult) error {
	exists, err := in.store.ExistsByURL(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		result.Skipped++
		return nil
	}

	embedding, err := in.embedder.Embed(ctx, EmbeddingText(item))
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	published := item.PublishedAt
	if published.IsZero() {
		published = in.now()
	}

	article := &model.NewsArticle{
		Title:          item.Title,
		URL:            item.URL,
		Source:         src.Name(),
		PublishedAt:    published.UTC(),
		Summary:        news.Truncate(item.Snippet, model.MaxSummaryChars),
		Embedding:      embedding,
		EmbeddingModel: in.embedder.Model(),
	}

	saved, err := in.store.SaveArticle(ctx, article)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	// Lost a race with a concurrent ingest for the same URL.
	if !saved {
		result.Skipped++
		return nil
	}

	result.Saved++
	slog.Info("article saved", "source", src.Name(), "title", news.Truncate(item.Title, 30))
	return nil
}

func EmbeddingText(item news.Item) string {
	return item.Title + ": " + item.Snippet
}

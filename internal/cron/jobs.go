package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
	"github.com/shopspring/decimal"
)

type PriceStore interface {
	InsertSnapshot(ctx context.Context, s *model.PriceSnapshot) error
	SnapshotInHour(ctx context.Context, hourStart time.Time) (*model.PriceSnapshot, error)
}

type NewsIngestor interface {
	IngestAll(ctx context.Context) model.IngestionResult
}

type Publisher interface {
	Publish(ctx context.Context, text string) map[string]*string
}

type Jobs struct {
	prices    gold.Provider
	store     PriceStore
	formatter *PostFormatter
	publisher Publisher
	ingestor  NewsIngestor
	now       func() time.Time
}

func NewJobs(prices gold.Provider, store PriceStore, formatter *PostFormatter, publisher Publisher, ingestor NewsIngestor) *Jobs {
	return &Jobs{
		prices:    prices,
		store:     store,
		formatter: formatter,
		publisher: publisher,
		ingestor:  ingestor,
		now:       time.Now,
	}
}

// Run executes a job by name. Unknown names fail without side effects.
func (j *Jobs) Run(ctx context.Context, name string) model.JobResult {
	switch name {
	case model.JobRecordPrice:
		return j.RecordPrice(ctx)
	case model.JobDailyPost:
		return j.DailyPost(ctx)
	case model.JobIngestNews:
		return j.IngestNews(ctx)
	default:
		return model.JobResult{Success: false, Message: fmt.Sprintf("unknown job %q", name)}
	}
}

// RecordPrice stores at most one snapshot per UTC hour. The hour check runs
// before any provider call so repeated triggers do not burn API quota.
func (j *Jobs) RecordPrice(ctx context.Context) model.JobResult {
	now := j.now().UTC()
	hourStart := now.Truncate(time.Hour)

	existing, err := j.store.SnapshotInHour(ctx, hourStart)
	if err != nil {
		slog.Warn("could not check recent fetches", "job", model.JobRecordPrice, "error", err)
	}

	if existing != nil {
		slog.Info("price already fetched this hour, skipping", "job", model.JobRecordPrice, "last_fetch", existing.Timestamp)
		return model.JobResult{
			Success: true,
			Message: "Price already fetched this hour (quota preserved)",
			Data:    map[string]any{"last_fetch": existing.Timestamp.UTC().Format(time.RFC3339)},
		}
	}

	report, err := j.prices.FetchReport(ctx)
	if err != nil {
		slog.Error("price fetch failed", "job", model.JobRecordPrice, "error", err)
		return model.JobResult{Success: false, Message: err.Error()}
	}

	snapshot := &model.PriceSnapshot{
		Timestamp: now,
		PriceUSD:  decimal.NewFromFloat(report.USD.Ounce).Round(4),
		PriceGBP:  decimal.NewFromFloat(report.GBP.Ounce).Round(4),
		Source:    report.Source,
	}

	if err := j.store.InsertSnapshot(ctx, snapshot); err != nil {
		slog.Error("database insert failed", "job", model.JobRecordPrice, "error", err)
		return model.JobResult{Success: false, Message: fmt.Sprintf("database insert failed: %v", err)}
	}

	slog.Info("price recorded", "job", model.JobRecordPrice, "usd", snapshot.PriceUSD.StringFixed(2), "source", snapshot.Source)
	return model.JobResult{
		Success: true,
		Message: fmt.Sprintf("Price recorded: $%s / £%s", snapshot.PriceUSD.StringFixed(2), snapshot.PriceGBP.StringFixed(2)),
		Data: map[string]any{
			"saved_price_usd": snapshot.PriceUSD,
			"saved_price_gbp": snapshot.PriceGBP,
			"timestamp":       now.Format(time.RFC3339),
		},
	}
}

// DailyPost succeeds once the post is rendered, even when no platform accepted
// it; the per-platform ids in the result show what was published.
func (j *Jobs) DailyPost(ctx context.Context) model.JobResult {
	report, err := j.prices.FetchReport(ctx)
	if err != nil {
		slog.Error("price fetch failed", "job", model.JobDailyPost, "error", err)
		return model.JobResult{Success: false, Message: err.Error()}
	}

	post, err := j.formatter.Format(ctx, report, j.now().In(Lagos))
	if err != nil {
		slog.Error("post formatting failed", "job", model.JobDailyPost, "error", err)
		return model.JobResult{Success: false, Message: err.Error()}
	}

	ids := j.publisher.Publish(ctx, post)

	slog.Info("daily post complete", "job", model.JobDailyPost, "platforms", len(ids))
	return model.JobResult{
		Success: true,
		Message: "Daily post published",
		Data: map[string]any{
			"report":     report,
			"post":       post,
			"tweet_id":   ids["twitter"],
			"threads_id": ids["threads"],
		},
	}
}

func (j *Jobs) IngestNews(ctx context.Context) model.JobResult {
	result := j.ingestor.IngestAll(ctx)
	return model.JobResult{
		Success: true,
		Message: fmt.Sprintf("News ingested: %d saved, %d skipped, %d errors", result.Saved, result.Skipped, result.Errors),
		Data:    result,
	}
}

package market

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
)

type ReportCache interface {
	Get(ctx context.Context) (*gold.Report, error)
	Set(ctx context.Context, report *gold.Report) error
}

type SnapshotReader interface {
	LatestSnapshot(ctx context.Context) (*model.PriceSnapshot, error)
	SnapshotAtOrBefore(ctx context.Context, at time.Time) (*model.PriceSnapshot, error)
}

type LiveQuote struct {
	Price     float64   `json:"price"`
	Gram      float64   `json:"gram"`
	Kilo      float64   `json:"kilo"`
	PriceGBP  float64   `json:"price_gbp"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Stale     bool      `json:"stale"`
	Available bool      `json:"available"`
	Change24h *float64  `json:"change_24h"`
}

// LiveService serves the dashboard price. Reads go cache, then providers,
// then the last stored snapshot, and never fail.
type LiveService struct {
	cache  ReportCache
	prices gold.Provider
	store  SnapshotReader
	now    func() time.Time
}

// NewLiveService accepts a nil cache when redis is not configured.
func NewLiveService(cache ReportCache, prices gold.Provider, store SnapshotReader) *LiveService {
	return &LiveService{cache: cache, prices: prices, store: store, now: time.Now}
}

func (s *LiveService) Quote(ctx context.Context) LiveQuote {
	quote, ok := s.fromCacheOrProviders(ctx)
	if !ok {
		quote, ok = s.fromStore(ctx)
	}
	if !ok {
		return LiveQuote{Timestamp: s.now().UTC(), Available: false}
	}

	quote.Change24h = s.change24h(ctx, quote.Price)
	return quote
}

func (s *LiveService) fromCacheOrProviders(ctx context.Context) (LiveQuote, bool) {
	if s.cache != nil {
		report, err := s.cache.Get(ctx)
		if err != nil {
			slog.Warn("live price cache read failed", "error", err)
		}
		if report != nil {
			return quoteFromReport(report), true
		}
	}

	report, err := s.prices.FetchReport(ctx)
	if err != nil {
		slog.Error("live price fetch failed", "error", err)
		return LiveQuote{}, false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			slog.Warn("live price cache write failed", "error", err)
		}
	}
	return quoteFromReport(report), true
}

func (s *LiveService) fromStore(ctx context.Context) (LiveQuote, bool) {
	snapshot, err := s.store.LatestSnapshot(ctx)
	if err != nil {
		slog.Error("latest snapshot lookup failed", "error", err)
		return LiveQuote{}, false
	}
	if snapshot == nil {
		return LiveQuote{}, false
	}

	usd, _ := snapshot.PriceUSD.Float64()
	gbp, _ := snapshot.PriceGBP.Float64()
	units := gold.NewUnitPrices(usd)
	return LiveQuote{
		Price:     units.Ounce,
		Gram:      units.Gram,
		Kilo:      units.Kilo,
		PriceGBP:  gbp,
		Timestamp: snapshot.Timestamp.UTC(),
		Source:    snapshot.Source,
		Stale:     true,
		Available: true,
	}, true
}

// change24h is the percent move against the last snapshot recorded at least a
// day ago, rounded to two places.
func (s *LiveService) change24h(ctx context.Context, price float64) *float64 {
	prev, err := s.store.SnapshotAtOrBefore(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		slog.Warn("24h snapshot lookup failed", "error", err)
		return nil
	}
	if prev == nil {
		return nil
	}

	base, _ := prev.PriceUSD.Float64()
	if base <= 0 {
		return nil
	}

	change := math.Round((price-base)/base*100*100) / 100
	return &change
}

func quoteFromReport(r *gold.Report) LiveQuote {
	return LiveQuote{
		Price:     r.USD.Ounce,
		Gram:      r.USD.Gram,
		Kilo:      r.USD.Kilo,
		PriceGBP:  r.GBP.Ounce,
		Timestamp: r.Timestamp,
		Source:    r.Source,
		Available: true,
	}
}

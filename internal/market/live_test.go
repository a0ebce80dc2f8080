package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"
)

type fakeCache struct {
	report *gold.Report
	err    error
	sets   int
}

func (f *fakeCache) Get(ctx context.Context) (*gold.Report, error) { return f.report, f.err }

func (f *fakeCache) Set(ctx context.Context, report *gold.Report) error {
	f.sets++
	f.report = report
	return nil
}

type fakeProvider struct {
	report *gold.Report
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchReport(ctx context.Context) (*gold.Report, error) {
	f.calls++
	return f.report, f.err
}

type fakeSnapshots struct {
	latest    *model.PriceSnapshot
	dayBefore *model.PriceSnapshot
	err       error
}

func (f *fakeSnapshots) LatestSnapshot(ctx context.Context) (*model.PriceSnapshot, error) {
	return f.latest, f.err
}

func (f *fakeSnapshots) SnapshotAtOrBefore(ctx context.Context, at time.Time) (*model.PriceSnapshot, error) {
	return f.dayBefore, f.err
}

var liveNow = time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

func testReport(ounce float64) *gold.Report {
	return &gold.Report{
		Timestamp: liveNow.Add(-time.Minute),
		Source:    gold.SourceGoldAPI,
		USD:       gold.NewUnitPrices(ounce),
		GBP:       gold.NewUnitPrices(ounce * 0.79),
	}
}

func snapshot(usd string, at time.Time) *model.PriceSnapshot {
	return &model.PriceSnapshot{
		Timestamp: at,
		PriceUSD:  decimal.RequireFromString(usd),
		PriceGBP:  decimal.RequireFromString(usd).Mul(decimal.RequireFromString("0.79")),
		Source:    gold.SourceMetalPrice,
	}
}

func newLive(cache ReportCache, provider *fakeProvider, store *fakeSnapshots) *LiveService {
	s := NewLiveService(cache, provider, store)
	s.now = func() time.Time { return liveNow }
	return s
}

func TestQuoteServesCacheWithoutProviderCall(t *testing.T) {
	cache := &fakeCache{report: testReport(4000)}
	provider := &fakeProvider{report: testReport(4100)}

	quote := newLive(cache, provider, &fakeSnapshots{}).Quote(context.Background())

	assert.Equal(t, 4000.0, quote.Price)
	assert.Equal(t, true, quote.Available)
	assert.Equal(t, false, quote.Stale)
	assert.Equal(t, 0, provider.calls)
}

func TestQuoteFetchesAndCachesOnMiss(t *testing.T) {
	cache := &fakeCache{}
	provider := &fakeProvider{report: testReport(4100)}
	store := &fakeSnapshots{dayBefore: snapshot("4000", liveNow.Add(-25*time.Hour))}

	quote := newLive(cache, provider, store).Quote(context.Background())

	assert.Equal(t, 4100.0, quote.Price)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2.5, *quote.Change24h)
	assert.Equal(t, gold.SourceGoldAPI, quote.Source)
}

func TestQuoteWithoutCache(t *testing.T) {
	provider := &fakeProvider{report: testReport(4100)}

	quote := newLive(nil, provider, &fakeSnapshots{}).Quote(context.Background())

	assert.Equal(t, 4100.0, quote.Price)
	assert.Equal(t, (*float64)(nil), quote.Change24h)
}

func TestQuoteFallsBackToStaleSnapshot(t *testing.T) {
	provider := &fakeProvider{err: gold.ErrQuota}
	store := &fakeSnapshots{latest: snapshot("3990.5", liveNow.Add(-3*time.Hour))}

	quote := newLive(&fakeCache{err: errors.New("redis down")}, provider, store).Quote(context.Background())

	assert.Equal(t, true, quote.Available)
	assert.Equal(t, true, quote.Stale)
	assert.Equal(t, 3990.5, quote.Price)
	assert.Equal(t, liveNow.Add(-3*time.Hour), quote.Timestamp)
	assert.Equal(t, gold.SourceMetalPrice, quote.Source)
}

func TestQuoteUnavailable(t *testing.T) {
	provider := &fakeProvider{err: gold.ErrNoProviders}

	quote := newLive(nil, provider, &fakeSnapshots{err: errors.New("db down")}).Quote(context.Background())

	assert.Equal(t, false, quote.Available)
	assert.Equal(t, 0.0, quote.Price)
	assert.Equal(t, (*float64)(nil), quote.Change24h)
}

func TestHistoryPoints(t *testing.T) {
	day1 := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	snapshots := []model.PriceSnapshot{
		*snapshot("4000", day1.Add(8*time.Hour)),
		*snapshot("4010", day1.Add(14*time.Hour)),
		*snapshot("4020", day1.Add(21*time.Hour)),
		*snapshot("4100", day1.Add(32*time.Hour)),
	}

	raw := HistoryPoints(snapshots, BucketRaw)
	assert.Equal(t, 4, len(raw))
	assert.Equal(t, "Jan 28, 14:00", raw[1].Date)
	assert.Equal(t, day1.Add(14*time.Hour).UnixMilli(), raw[1].RawDate)

	daily := HistoryPoints(snapshots, BucketDay)
	assert.Equal(t, 2, len(daily))
	assert.Equal(t, 4020.0, daily[0].PriceUSD)
	assert.Equal(t, "Jan 28", daily[0].Date)
	assert.Equal(t, 4100.0, daily[1].PriceUSD)
	assert.Equal(t, 3239.0, daily[1].PriceGBP)
}

package market

import (
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
)

const (
	BucketRaw = "raw"
	BucketDay = "day"

	DefaultHistoryLimit = 150
	MaxHistoryLimit     = 1000
)

type HistoryPoint struct {
	Date     string  `json:"date"`
	RawDate  int64   `json:"raw_date"`
	PriceUSD float64 `json:"price_usd"`
	PriceGBP float64 `json:"price_gbp"`
}

// HistoryPoints converts ascending snapshots into chart points. The day bucket
// keeps the last price of each UTC calendar day.
func HistoryPoints(snapshots []model.PriceSnapshot, bucket string) []HistoryPoint {
	if bucket == BucketDay {
		snapshots = model.LastPerDay(snapshots, time.UTC)
	}

	points := make([]HistoryPoint, 0, len(snapshots))
	for _, s := range snapshots {
		usd, _ := s.PriceUSD.Float64()
		gbp, _ := s.PriceGBP.Float64()
		ts := s.Timestamp.UTC()

		date := ts.Format("Jan 02, 15:04")
		if bucket == BucketDay {
			date = ts.Format("Jan 02")
		}

		points = append(points, HistoryPoint{
			Date:     date,
			RawDate:  ts.UnixMilli(),
			PriceUSD: usd,
			PriceGBP: gbp,
		})
	}
	return points
}

package model

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type PriceSnapshot struct {
	ID        int64
	Timestamp time.Time
	PriceUSD  decimal.Decimal
	PriceGBP  decimal.Decimal
	Source    string
}

func (s *PriceSnapshot) Validate() error {
	if !s.PriceUSD.IsPositive() {
		return errors.New("price_usd must be positive")
	}
	if s.PriceGBP.IsNegative() {
		return errors.New("price_gbp must not be negative")
	}
	if s.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	if s.Source == "" {
		return errors.New("source is required")
	}
	return nil
}

// LastPerDay keeps the last snapshot of each calendar day in loc. Input must be
// ordered by timestamp ascending; output keeps that order.
func LastPerDay(snapshots []PriceSnapshot, loc *time.Location) []PriceSnapshot {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[string]PriceSnapshot)
	var days []string
	for _, s := range snapshots {
		day := s.Timestamp.In(loc).Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = s
	}

	sort.Strings(days)
	out := make([]PriceSnapshot, 0, len(days))
	for _, d := range days {
		out = append(out, byDay[d])
	}
	return out
}

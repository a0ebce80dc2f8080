package gold

import (
	"math"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func TestNewUnitPrices(t *testing.T) {
	tests := []float64{1, 2034.5, 4319.53, 0.5}
	for _, ounce := range tests {
		p := NewUnitPrices(ounce)
		assert.Equal(t, ounce, p.Ounce)
		assert.Equal(t, true, approx(p.Gram, ounce/31.1035))
		assert.Equal(t, true, approx(p.Kilo, ounce*32.1507))
	}
}

func TestNewReportDerivesGBP(t *testing.T) {
	at := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	r := newReport(SourceGoldAPI, 2000, 0.8, false, at)

	assert.Equal(t, SourceGoldAPI, r.Source)
	assert.Equal(t, true, approx(r.GBP.Ounce, 1600))
	assert.Equal(t, true, approx(r.GBP.Gram, 1600/GramsPerTroyOunce))
	assert.Equal(t, at, r.Timestamp)
}

package gold

import (
	"context"
	"time"
)

const (
	GramsPerTroyOunce = 31.1035
	TroyOuncesPerKilo = 32.1507

	// FallbackUSDToGBP is used when the exchange-rate lookup fails.
	FallbackUSDToGBP = 0.79
)

type UnitPrices struct {
	Ounce float64 `json:"ounce"`
	Gram  float64 `json:"gram"`
	Kilo  float64 `json:"kilo"`
}

func NewUnitPrices(ounce float64) UnitPrices {
	return UnitPrices{
		Ounce: ounce,
		Gram:  ounce / GramsPerTroyOunce,
		Kilo:  ounce * TroyOuncesPerKilo,
	}
}

type Report struct {
	Timestamp  time.Time  `json:"timestamp"`
	Source     string     `json:"source"`
	USD        UnitPrices `json:"usd"`
	GBP        UnitPrices `json:"gbp"`
	USDToGBP   float64    `json:"usd_to_gbp"`
	FXFallback bool       `json:"fx_fallback"`
}

func newReport(source string, ounceUSD, usdToGBP float64, fxFallback bool, at time.Time) *Report {
	return &Report{
		Timestamp:  at.UTC(),
		Source:     source,
		USD:        NewUnitPrices(ounceUSD),
		GBP:        NewUnitPrices(ounceUSD * usdToGBP),
		USDToGBP:   usdToGBP,
		FXFallback: fxFallback,
	}
}

type Provider interface {
	Name() string
	FetchReport(ctx context.Context) (*Report, error)
}

const (
	SourceGoldAPI    = "goldapi"
	SourceMetalPrice = "metalpriceapi"
)

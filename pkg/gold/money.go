package gold

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders v with thousands separators and two decimals.
func FormatMoney(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Describe renders ounce, gram and kilo prices in one line, e.g.
// "$4,319.53/oz ($138.88/g, $138,872.96/kg)".
func (u UnitPrices) Describe(symbol string) string {
	return symbol + FormatMoney(u.Ounce) + "/oz (" +
		symbol + FormatMoney(u.Gram) + "/g, " +
		symbol + FormatMoney(u.Kilo) + "/kg)"
}

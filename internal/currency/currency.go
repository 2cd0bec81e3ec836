// Package currency converts listing rates between currencies and formats them for display.
//
// Unknown currency codes are never an error: the code doubles as the symbol,
// two decimals are assumed and a missing exchange factor counts as 1.
package currency

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is the display string for an absent rate.
const NotAvailable = "N/A"

// Rates maps a currency code to its multiplicative factor relative to the base currency.
// A Rates value is treated as immutable once handed to a board.
type Rates map[string]float64

// Factor returns the factor for code, or 1 when the code is absent, zero or not finite.
func (r Rates) Factor(code string) float64 {
	if f, ok := r[normalize(code)]; ok && f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return 1
}

// Codes returns the codes in the table, sorted.
func (r Rates) Codes() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CAD": "C$",
	"ZAR": "R",
	"DKK": "kr",
	"AED": "د.إ",
	"AUD": "A$",
	"JPY": "¥",
	"CHF": "CHF",
	"CNY": "¥",
	"INR": "₹",
	"NZD": "NZ$",
	"MXN": "MX$",
	"SGD": "S$",
}

// Whole-unit currencies are displayed without a fractional part.
var zeroDecimal = map[string]struct{}{
	"JPY": {}, "HUF": {}, "TWD": {}, "KRW": {}, "CLP": {}, "ISK": {},
	"ZAR": {}, "DKK": {}, "NOK": {}, "SEK": {},
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Symbol returns the display symbol for code, falling back to the code itself.
func Symbol(code string) string {
	code = normalize(code)
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// DecimalPlaces returns the number of decimals shown for code.
func DecimalPlaces(code string) int32 {
	if _, ok := zeroDecimal[normalize(code)]; ok {
		return 0
	}
	return 2
}

// Format converts rate into code using rates and renders it with the currency's symbol
// and decimal policy. Rate and factor are taken in their shortest decimal form
// and rounded half away from zero, so 2.675 renders as "2.68" even though the
// nearest float64 lies just below it.
//
//	Format(30, "EUR", Rates{"EUR": 1})   // "€30.00"
//	Format(30, "ZAR", Rates{"ZAR": 15})  // "R450"
func Format(rate float64, code string, rates Rates) string {
	value := decimal.NewFromFloat(rate).Mul(decimal.NewFromFloat(rates.Factor(code)))
	return Symbol(code) + value.StringFixed(DecimalPlaces(code))
}

// FormatNullable is Format for an optional rate; nil renders as NotAvailable.
func FormatNullable(rate *float64, code string, rates Rates) string {
	if rate == nil {
		return NotAvailable
	}
	return Format(*rate, code, rates)
}

// Convert converts amount from one currency to another.
// Identical codes return amount unchanged.
func Convert(amount float64, from, to string, rates Rates) float64 {
	if normalize(from) == normalize(to) {
		return amount
	}
	return amount * (rates.Factor(to) / rates.Factor(from))
}

// Option is a selectable display currency.
type Option struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Available returns every currency with a known symbol, sorted by code.
func Available() []Option {
	opts := make([]Option, 0, len(symbols))
	for code, sym := range symbols {
		opts = append(opts, Option{Code: code, Symbol: sym})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Code < opts[j].Code })
	return opts
}

package currency

import (
	"math"
	"strings"
	"testing"
)

var testRates = Rates{"EUR": 1, "USD": 1.1, "GBP": 0.85, "CAD": 1.5, "ZAR": 15, "DKK": 7.5}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		code  string
		rates Rates
		want  string
	}{
		{"base currency", 30, "EUR", testRates, "€30.00"},
		{"converted", 30, "USD", testRates, "$33.00"},
		{"fractional factor", 25, "GBP", testRates, "£21.25"},
		{"whole unit currency", 30, "ZAR", testRates, "R450"},
		{"whole unit rounds", 22.5, "DKK", testRates, "kr169"},
		{"zero decimal japan", 1234.5, "JPY", Rates{"JPY": 1}, "¥1235"},
		{"zero rate", 0, "EUR", testRates, "€0.00"},
		{"zero rate whole unit", 0, "ZAR", testRates, "R0"},
		{"unknown code uses code as symbol", 12.5, "XYZ", testRates, "XYZ12.50"},
		{"missing factor defaults to one", 18, "AUD", testRates, "A$18.00"},
		{"zero factor defaults to one", 18, "CHF", Rates{"CHF": 0}, "CHF18.00"},
		{"nil table", 18, "EUR", nil, "€18.00"},
		{"lower case code", 30, "usd", testRates, "$33.00"},
		{"rounds half away from zero", 10.005, "EUR", Rates{"EUR": 1}, "€10.01"},
		{"rounds exact decimal not binary float", 2.675, "EUR", Rates{"EUR": 1}, "€2.68"},
		{"NaN factor defaults to one", 18, "USD", Rates{"USD": math.NaN()}, "$18.00"},
		{"infinite factor defaults to one", 18, "USD", Rates{"USD": math.Inf(1)}, "$18.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.rate, tt.code, tt.rates)
			if got != tt.want {
				t.Errorf("Format(%v, %q) = %q, want %q", tt.rate, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormat_ZeroDecimalNeverFractional(t *testing.T) {
	rates := Rates{"JPY": 161.37, "HUF": 389.9, "KRW": 1453.1, "ZAR": 19.77, "DKK": 7.46, "NOK": 11.5, "SEK": 11.2, "ISK": 150.3, "CLP": 1002.7, "TWD": 34.9}
	amounts := []float64{0, 0.01, 0.5, 1, 17.33, 22.5, 99.999, 1234.5678}

	for code := range rates {
		for _, amount := range amounts {
			got := Format(amount, code, rates)
			if strings.Contains(got, ".") {
				t.Errorf("Format(%v, %q) = %q, want no fractional part", amount, code, got)
			}
		}
	}
}

func TestFormatNullable(t *testing.T) {
	if got := FormatNullable(nil, "EUR", testRates); got != NotAvailable {
		t.Errorf("FormatNullable(nil) = %q, want %q", got, NotAvailable)
	}

	zero := 0.0
	if got := FormatNullable(&zero, "EUR", testRates); got != "€0.00" {
		t.Errorf("FormatNullable(0) = %q, want %q", got, "€0.00")
	}
	if got := FormatNullable(&zero, "GBP", testRates); got == NotAvailable {
		t.Error("zero rate must not format as not available")
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{"to base", 30, "USD", "EUR", 30 / 1.1},
		{"from base", 30, "EUR", "ZAR", 450},
		{"cross rate", 10, "GBP", "CAD", 10 * (1.5 / 0.85)},
		{"missing from factor", 10, "XYZ", "CAD", 15},
		{"missing to factor", 15, "CAD", "XYZ", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.amount, tt.from, tt.to, testRates)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Convert(%v, %q, %q) = %v, want %v", tt.amount, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvert_IdentityIsExact(t *testing.T) {
	amounts := []float64{0, 0.1, 1.0 / 3.0, 19.99, 1e15 + 0.5}
	tables := []Rates{nil, testRates, {"USD": 1.0000001}}

	for _, rates := range tables {
		for _, code := range []string{"EUR", "USD", "ZAR", "XYZ"} {
			for _, amount := range amounts {
				if got := Convert(amount, code, code, rates); got != amount {
					t.Errorf("Convert(%v, %q, %q) = %v, want exactly %v", amount, code, code, got, amount)
				}
			}
		}
	}
}

func TestSymbolAndDecimals(t *testing.T) {
	if got := Symbol("GBP"); got != "£" {
		t.Errorf("Symbol(GBP) = %q, want £", got)
	}
	if got := Symbol("XYZ"); got != "XYZ" {
		t.Errorf("Symbol(XYZ) = %q, want XYZ", got)
	}
	if got := DecimalPlaces("SEK"); got != 0 {
		t.Errorf("DecimalPlaces(SEK) = %d, want 0", got)
	}
	if got := DecimalPlaces("XYZ"); got != 2 {
		t.Errorf("DecimalPlaces(XYZ) = %d, want 2", got)
	}
}

func TestAvailable(t *testing.T) {
	opts := Available()
	if len(opts) != len(symbols) {
		t.Fatalf("len(Available()) = %d, want %d", len(opts), len(symbols))
	}
	for i := 1; i < len(opts); i++ {
		if opts[i-1].Code >= opts[i].Code {
			t.Errorf("Available() not sorted at %d: %q >= %q", i, opts[i-1].Code, opts[i].Code)
		}
	}
}

package market

import (
	"time"

	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/feed"
	"github.com/overtimestaff/marketboard/internal/model"
)

// ClockLayout is the board clock format.
const ClockLayout = "15:04:05 UTC"

// FormatClock renders t as a UTC wall clock, e.g. "09:05:00 UTC".
func FormatClock(t time.Time) string {
	return t.UTC().Format(ClockLayout)
}

func demoRate(f float64) *float64 { return &f }

var demoRows = []model.Row{
	{ID: "101", Type: "URGENT", UrgencyLevel: "high", Title: "Emergency Chef Needed", Location: "Berlin", Region: "Berlin, Germany", Currency: "EUR", OriginalRate: demoRate(30), Highlight: true, CreatedAt: "2024-01-25T10:00:00Z"},
	{ID: "102", Type: "PREMIUM", UrgencyLevel: "medium", Title: "Experienced Waiter", Location: "Munich", Region: "Munich, Germany", Currency: "EUR", OriginalRate: demoRate(25), CreatedAt: "2024-01-25T09:30:00Z"},
	{ID: "103", Type: "SWAP", UrgencyLevel: "low", Title: "Bartender Shift Swap", Location: "Hamburg", Region: "Hamburg, Germany", Currency: "EUR", OriginalRate: demoRate(22), CreatedAt: "2024-01-25T09:00:00Z"},
	{ID: "104", Type: "URGENT", UrgencyLevel: "high", Title: "Urgent Dishwasher Needed", Location: "Cologne", Region: "Cologne, Germany", Currency: "EUR", OriginalRate: demoRate(28), Highlight: true, CreatedAt: "2024-01-25T08:30:00Z"},
	{ID: "105", Type: "PREMIUM", UrgencyLevel: "medium", Title: "Hotel Receptionist", Location: "Frankfurt", Region: "Frankfurt, Germany", Currency: "EUR", OriginalRate: demoRate(26), CreatedAt: "2024-01-25T08:00:00Z"},
	{ID: "106", Type: "SWAP", UrgencyLevel: "low", Title: "Kitchen Staff Swap", Location: "Stuttgart", Region: "Stuttgart, Germany", Currency: "EUR", OriginalRate: demoRate(23), CreatedAt: "2024-01-25T07:30:00Z"},
	{ID: "107", Type: "URGENT", UrgencyLevel: "high", Title: "Emergency Cleaning Staff", Location: "Dusseldorf", Region: "Dusseldorf, Germany", Currency: "EUR", OriginalRate: demoRate(32), Highlight: true, CreatedAt: "2024-01-25T07:00:00Z"},
	{ID: "108", Type: "PREMIUM", UrgencyLevel: "medium", Title: "Restaurant Manager", Location: "Dortmund", Region: "Dortmund, Germany", Currency: "EUR", OriginalRate: demoRate(27), CreatedAt: "2024-01-25T06:30:00Z"},
}

// DemoListings returns the fallback listings formatted for code.
func DemoListings(code string, rates currency.Rates) []model.MarketUpdate {
	out := make([]model.MarketUpdate, len(demoRows))
	for i, row := range demoRows {
		out[i] = feed.Normalize(row, code, rates)
	}
	return out
}

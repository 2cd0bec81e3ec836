package forms

import (
	"regexp"
	"strings"

	"github.com/overtimestaff/marketboard/internal/model"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// ListingForm is a submitted market update.
type ListingForm struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Region       string   `json:"region"`
	Currency     string   `json:"currency"`
	OriginalRate *float64 `json:"original_rate"`
	Urgency      string   `json:"urgency_level"`
	Highlight    bool     `json:"highlight"`
}

// ValidateListing checks f and returns the listing to publish.
// Urgency defaults to low; currency is upper-cased.
func ValidateListing(f ListingForm) (model.ListingInput, error) {
	var c checker

	kind := model.Category(strings.ToUpper(strings.TrimSpace(f.Type)))
	if !kind.Valid() {
		c.fail("type", "must be one of URGENT, SWAP, PREMIUM")
	}

	title := strings.TrimSpace(f.Title)
	location := strings.TrimSpace(f.Location)
	region := strings.TrimSpace(f.Region)
	c.length("title", title, 1, 200)
	c.length("location", location, 1, 200)
	c.length("region", region, 1, 100)

	code := strings.ToUpper(strings.TrimSpace(f.Currency))
	c.match("currency", code, currencyCode, "a three-letter currency code")

	var rate float64
	switch {
	case f.OriginalRate == nil:
		c.fail("original_rate", "is required")
	case *f.OriginalRate < 0:
		c.fail("original_rate", "must not be negative")
	default:
		rate = *f.OriginalRate
	}

	urgency := model.Urgency(strings.ToLower(strings.TrimSpace(f.Urgency)))
	if urgency == "" {
		urgency = model.UrgencyLow
	}
	if !urgency.Valid() {
		c.fail("urgency_level", "must be one of low, medium, high")
	}

	if err := c.err(); err != nil {
		return model.ListingInput{}, err
	}

	return model.ListingInput{
		Type:         kind,
		Title:        title,
		Location:     location,
		Region:       region,
		Currency:     code,
		OriginalRate: rate,
		Urgency:      urgency,
		Highlight:    f.Highlight,
	}, nil
}

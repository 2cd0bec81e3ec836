package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxActive is the maximum number of listings held by a board.
const MaxActive = 12

// -----------------------------------------------------------------------------
// Enumerations
// -----------------------------------------------------------------------------

// Category is the kind of a listing.
type Category string

const (
	CategoryUrgent  Category = "URGENT"
	CategorySwap    Category = "SWAP"
	CategoryPremium Category = "PREMIUM"
)

// Valid reports whether c is one of the known listing kinds.
func (c Category) Valid() bool {
	switch c {
	case CategoryUrgent, CategorySwap, CategoryPremium:
		return true
	}
	return false
}

// Urgency is the ordered urgency tier of a listing.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Rank orders urgency tiers: low=1, medium=2, high=3, unknown=0.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	}
	return 0
}

// Valid reports whether u is a known tier.
func (u Urgency) Valid() bool {
	return u.Rank() > 0
}

// -----------------------------------------------------------------------------
// Listing Types
// -----------------------------------------------------------------------------

// MarketUpdate is a listing as displayed on the board.
type MarketUpdate struct {
	ID           string    `json:"id"`
	Type         Category  `json:"type"`
	Urgency      Urgency   `json:"urgency_level"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Region       string    `json:"region"`
	OriginalRate *float64  `json:"original_rate"` // nil when the backend row has no rate
	Currency     string    `json:"currency"`      // Currency of OriginalRate
	Rate         string    `json:"rate"`          // Display string, e.g. "€30.00"
	Highlight    bool      `json:"highlight"`
	CreatedAt    time.Time `json:"created_at"`

	// Ephemeral UI flags.
	IsNew      bool `json:"is_new,omitempty"`
	IsUpdating bool `json:"is_updating,omitempty"`
}

// Row is a market_updates row as the backend delivers it (REST, Postgres or realtime).
type Row struct {
	ID           FlexibleID `json:"id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Location     string     `json:"location"`
	OriginalRate *float64   `json:"original_rate"`
	Currency     string     `json:"currency"`
	Region       string     `json:"region"`
	Highlight    bool       `json:"highlight"`
	CreatedAt    string     `json:"created_at"` // ISO 8601, with or without zone
	UrgencyLevel string     `json:"urgency_level"`
}

// Row validation errors.
var (
	ErrMissingID    = errors.New("row has no id")
	ErrUnknownType  = errors.New("unknown listing type")
	ErrUnknownLevel = errors.New("unknown urgency level")
	ErrNegativeRate = errors.New("negative rate")
)

// Validate checks the row before it is allowed into a board.
func (r Row) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if !Category(r.Type).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
	if r.UrgencyLevel != "" && !Urgency(r.UrgencyLevel).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, r.UrgencyLevel)
	}
	if r.OriginalRate != nil && *r.OriginalRate < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeRate, *r.OriginalRate)
	}
	return nil
}

// ToUpdate converts a row into an unformatted MarketUpdate. The caller sets Rate.
func (r Row) ToUpdate() MarketUpdate {
	urgency := Urgency(r.UrgencyLevel)
	if urgency == "" {
		urgency = UrgencyLow
	}

	return MarketUpdate{
		ID:           string(r.ID),
		Type:         Category(r.Type),
		Urgency:      urgency,
		Title:        r.Title,
		Location:     r.Location,
		Region:       r.Region,
		OriginalRate: r.OriginalRate,
		Currency:     strings.ToUpper(r.Currency),
		Highlight:    r.Highlight,
		CreatedAt:    ParseTimestamp(r.CreatedAt),
	}
}

// FlexibleID accepts either a JSON string or a JSON number.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses the backend's timestamp forms. Values without a zone are UTC.
// Returns the zero time for empty or invalid input.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// -----------------------------------------------------------------------------
// Feed Events
// -----------------------------------------------------------------------------

// Event is a change-feed event after boundary parsing.
// Concrete types: InsertEvent, UpdateEvent, DisconnectEvent, ReconnectEvent.
type Event interface {
	isEvent()
}

// InsertEvent carries a newly inserted row.
type InsertEvent struct {
	Row Row
}

// UpdateEvent carries the new image of an updated row.
type UpdateEvent struct {
	Row Row
}

// DisconnectEvent reports that the channel dropped.
type DisconnectEvent struct {
	Reason string
}

// ReconnectEvent reports that the channel was re-established.
type ReconnectEvent struct{}

func (InsertEvent) isEvent()     {}
func (UpdateEvent) isEvent()     {}
func (DisconnectEvent) isEvent() {}
func (ReconnectEvent) isEvent()  {}

// ListingInput is a validated request to publish a new listing.
type ListingInput struct {
	Type         Category `json:"type"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Region       string   `json:"region"`
	Currency     string   `json:"currency"`
	OriginalRate float64  `json:"original_rate"`
	Urgency      Urgency  `json:"urgency_level"`
	Highlight    bool     `json:"highlight"`
}

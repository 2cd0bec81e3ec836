package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/overtimestaff/marketboard/internal/model"
)

// ErrEmptyInsert is returned when the backend accepts an insert but returns no row.
var ErrEmptyInsert = errors.New("insert returned no rows")

func (c *Client) tablePath() string {
	return "/rest/v1/" + url.PathEscape(c.table)
}

// ListRecent fetches up to limit rows, newest first.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]model.Row, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var rows []model.Row
	if err := c.get(ctx, c.tablePath(), query, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}

	return rows, nil
}

// insertBody is the JSON body for a new listing.
type insertBody struct {
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	Location     string  `json:"location"`
	Region       string  `json:"region"`
	Currency     string  `json:"currency"`
	OriginalRate float64 `json:"original_rate"`
	UrgencyLevel string  `json:"urgency_level"`
	Highlight    bool    `json:"highlight"`
}

// Insert publishes a listing and returns the stored row.
func (c *Client) Insert(ctx context.Context, in model.ListingInput) (model.Row, error) {
	body := insertBody{
		Type:         string(in.Type),
		Title:        in.Title,
		Location:     in.Location,
		Region:       in.Region,
		Currency:     in.Currency,
		OriginalRate: in.OriginalRate,
		UrgencyLevel: string(in.Urgency),
		Highlight:    in.Highlight,
	}

	var rows []model.Row
	if err := c.post(ctx, c.tablePath(), body, &rows); err != nil {
		return model.Row{}, fmt.Errorf("insert into %s: %w", c.table, err)
	}
	if len(rows) == 0 {
		return model.Row{}, ErrEmptyInsert
	}

	return rows[0], nil
}

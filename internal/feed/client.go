package feed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/overtimestaff/marketboard/internal/connection"
	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/model"
)

// DefaultTopic is the realtime channel joined for listing changes.
const DefaultTopic = "realtime:market-updates"

// SnapshotSource returns the most recent rows, newest first.
// Implemented by api.Client and database.Store.
type SnapshotSource interface {
	ListRecent(ctx context.Context, limit int) ([]model.Row, error)
}

// Config configures the feed client.
type Config struct {
	RealtimeURL       string      // Websocket URL including apikey and vsn
	Header            http.Header // Handshake headers
	Topic             string
	Schema            string
	Table             string
	MaxRetries        int           // Rejoin attempts after a disconnect
	RetryDelay        time.Duration // Fixed delay before each rejoin
	HeartbeatInterval time.Duration
	PingTimeout       time.Duration
	JoinTimeout       time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Topic:             DefaultTopic,
		Schema:            "public",
		Table:             "market_updates",
		MaxRetries:        5,
		RetryDelay:        2 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PingTimeout:       60 * time.Second,
		JoinTimeout:       10 * time.Second,
	}
}

// Client fetches snapshots and opens realtime subscriptions.
type Client struct {
	cfg    Config
	source SnapshotSource
	logger *slog.Logger

	newConn func(connection.ClientConfig, *slog.Logger) connection.Client
}

// NewClient creates a feed client. Zero config fields take their defaults.
func NewClient(cfg Config, source SnapshotSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultConfig()
	if cfg.Topic == "" {
		cfg.Topic = defaults.Topic
	}
	if cfg.Schema == "" {
		cfg.Schema = defaults.Schema
	}
	if cfg.Table == "" {
		cfg.Table = defaults.Table
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = defaults.JoinTimeout
	}

	return &Client{
		cfg:     cfg,
		source:  source,
		logger:  logger,
		newConn: connection.NewClient,
	}
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// FetchSnapshot reads the latest listings and formats them for code.
// Rows that fail validation are dropped. Any source failure is a *FetchError.
func (c *Client) FetchSnapshot(ctx context.Context, code string, rates currency.Rates) ([]model.MarketUpdate, error) {
	rows, err := c.source.ListRecent(ctx, model.MaxActive)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	updates := make([]model.MarketUpdate, 0, len(rows))
	for _, row := range rows {
		if len(updates) == model.MaxActive {
			break
		}
		if err := row.Validate(); err != nil {
			c.logger.Warn("dropping invalid row", "id", row.ID, "error", err)
			continue
		}
		updates = append(updates, Normalize(row, code, rates))
	}

	c.logger.Debug("snapshot fetched", "rows", len(rows), "kept", len(updates), "currency", code)
	return updates, nil
}

// Normalize converts a validated row to a display update in code.
func Normalize(row model.Row, code string, rates currency.Rates) model.MarketUpdate {
	u := row.ToUpdate()
	u.Rate = currency.FormatNullable(row.OriginalRate, code, rates)
	return u
}

// joinPayload filters the channel to changes on schema.table.
func (c *Client) joinPayload() map[string]any {
	return map[string]any{
		"config": map[string]any{
			"broadcast": map[string]any{"self": false},
			"presence":  map[string]any{"key": ""},
			"postgres_changes": []map[string]string{
				{"event": "*", "schema": c.cfg.Schema, "table": c.cfg.Table},
			},
		},
	}
}

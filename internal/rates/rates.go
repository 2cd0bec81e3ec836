// Package rates loads the exchange-rate table a board uses for its whole session.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/overtimestaff/marketboard/internal/currency"
)

// ErrEmptyTable is returned when a source yields no usable factors.
var ErrEmptyTable = errors.New("exchange rate table is empty")

// Source provides an exchange-rate table.
type Source interface {
	Load(ctx context.Context) (currency.Rates, error)
}

// Static serves a fixed table, typically from configuration.
type Static currency.Rates

// Load returns a copy of the table.
func (s Static) Load(ctx context.Context) (currency.Rates, error) {
	if len(s) == 0 {
		return nil, ErrEmptyTable
	}
	out := make(currency.Rates, len(s))
	for code, f := range s {
		out[strings.ToUpper(code)] = f
	}
	return out, nil
}

// Redis reads the table from a hash of code -> factor.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed source reading the hash at key.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Load reads and parses the hash.
func (r *Redis) Load(ctx context.Context) (currency.Rates, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read rates hash %s: %w", r.key, err)
	}
	return ParseTable(fields)
}

// ParseTable converts string factors into a rate table.
// Non-numeric, non-finite or non-positive factors are rejected.
func ParseTable(fields map[string]string) (currency.Rates, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyTable
	}

	out := make(currency.Rates, len(fields))
	for code, raw := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", code, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return nil, fmt.Errorf("rate for %s must be a positive finite number, got %v", code, f)
		}
		out[strings.ToUpper(strings.TrimSpace(code))] = f
	}
	return out, nil
}

// Chain tries each source in order and returns the first table that loads.
type Chain struct {
	Sources []Source
	Logger  *slog.Logger
}

// Load implements Source.
func (c Chain) Load(ctx context.Context) (currency.Rates, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error = ErrEmptyTable
	for i, src := range c.Sources {
		table, err := src.Load(ctx)
		if err == nil {
			return table, nil
		}
		logger.Warn("exchange rate source failed", "source", i, "error", err)
		lastErr = err
	}
	return nil, lastErr
}

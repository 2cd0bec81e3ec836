package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultSchema            = "public"
	DefaultTable             = "market_updates"
	DefaultSnapshotSource    = SnapshotSourceREST
	DefaultAPITimeout        = 30 * time.Second
	DefaultAPIMaxRetries     = 3
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultCurrency          = "EUR"
	DefaultFeedMaxRetries    = 5
	DefaultRetryDelay        = 2 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultPingTimeout       = 60 * time.Second
	DefaultJoinTimeout       = 10 * time.Second
	DefaultRatesKey          = "exchange_rates"
	DefaultPollSchedule      = "@every 5m"
	DefaultSessionPath       = "marketboard.db"
	DefaultSessionKey        = "user-storage"
	DefaultServerPort        = 8080
)

// DefaultRates is the table used when neither config nor Redis supply one.
func DefaultRates() map[string]float64 {
	return map[string]float64{"EUR": 1, "USD": 1.1, "GBP": 0.85, "CAD": 1.5, "ZAR": 15, "DKK": 7.5}
}

func (c *BoardConfig) applyDefaults() {
	// Backend defaults
	if c.Backend.Schema == "" {
		c.Backend.Schema = DefaultSchema
	}
	if c.Backend.Table == "" {
		c.Backend.Table = DefaultTable
	}
	if c.Backend.SnapshotSource == "" {
		c.Backend.SnapshotSource = DefaultSnapshotSource
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = DefaultAPITimeout
	}
	if c.Backend.MaxRetries == 0 {
		c.Backend.MaxRetries = DefaultAPIMaxRetries
	}

	// Database defaults
	if c.Database.Postgres.Enabled() {
		applyDBDefaults(&c.Database.Postgres)
	}

	// Feed defaults
	if c.Feed.Currency == "" {
		c.Feed.Currency = DefaultCurrency
	}
	if c.Feed.MaxRetries == 0 {
		c.Feed.MaxRetries = DefaultFeedMaxRetries
	}
	if c.Feed.RetryDelay == 0 {
		c.Feed.RetryDelay = DefaultRetryDelay
	}
	if c.Feed.HeartbeatInterval == 0 {
		c.Feed.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Feed.PingTimeout == 0 {
		c.Feed.PingTimeout = DefaultPingTimeout
	}
	if c.Feed.JoinTimeout == 0 {
		c.Feed.JoinTimeout = DefaultJoinTimeout
	}

	// Rates defaults
	if len(c.Rates.Static) == 0 {
		c.Rates.Static = DefaultRates()
	}
	if c.Rates.Redis.Key == "" {
		c.Rates.Redis.Key = DefaultRatesKey
	}

	if c.Poller.Schedule == "" {
		c.Poller.Schedule = DefaultPollSchedule
	}

	if c.Session.Path == "" {
		c.Session.Path = DefaultSessionPath
	}
	if c.Session.Key == "" {
		c.Session.Key = DefaultSessionKey
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

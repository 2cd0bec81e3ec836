package config

import "time"

// BoardConfig is the root configuration for a market board instance.
type BoardConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Rates    RatesConfig    `yaml:"rates"`
	Poller   PollerConfig   `yaml:"poller"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
}

// InstanceConfig identifies this board.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// Snapshot sources.
const (
	SnapshotSourceREST     = "rest"
	SnapshotSourcePostgres = "postgres"
)

// BackendConfig holds the hosted backend settings.
type BackendConfig struct {
	RestURL        string        `yaml:"rest_url"`        // e.g. https://xyz.supabase.co
	RealtimeURL    string        `yaml:"realtime_url"`    // e.g. wss://xyz.supabase.co/realtime/v1/websocket
	APIKey         string        `yaml:"api_key"`         // anon or service key
	Schema         string        `yaml:"schema"`          // default "public"
	Table          string        `yaml:"table"`           // default "market_updates"
	SnapshotSource string        `yaml:"snapshot_source"` // "rest" or "postgres"
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
}

// DatabaseConfig holds the optional direct Postgres connection.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a Postgres host is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// FeedConfig holds realtime feed settings.
type FeedConfig struct {
	Currency          string        `yaml:"currency"` // Display currency
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	PingTimeout       time.Duration `yaml:"ping_timeout"`
	JoinTimeout       time.Duration `yaml:"join_timeout"`
}

// RatesConfig holds the exchange-rate table sources.
type RatesConfig struct {
	Static map[string]float64 `yaml:"static"`
	Redis  RedisConfig        `yaml:"redis"`
}

// RedisConfig holds the optional Redis rate source.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// PollerConfig holds periodic snapshot refresh settings.
type PollerConfig struct {
	Schedule string `yaml:"schedule"` // cron spec, e.g. "@every 5m"
}

// SessionConfig holds persisted session settings.
type SessionConfig struct {
	Path string `yaml:"path"` // SQLite file
	Key  string `yaml:"key"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate checks that all required fields are set and values are valid.
func (c *BoardConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Backend.RealtimeURL == "" {
		return errors.New("backend.realtime_url is required")
	}

	switch c.Backend.SnapshotSource {
	case SnapshotSourceREST:
		if c.Backend.RestURL == "" {
			return errors.New("backend.rest_url is required for rest snapshots")
		}
	case SnapshotSourcePostgres:
		if !c.Database.Postgres.Enabled() {
			return errors.New("database.postgres is required for postgres snapshots")
		}
	default:
		return fmt.Errorf("backend.snapshot_source must be %q or %q, got %q",
			SnapshotSourceREST, SnapshotSourcePostgres, c.Backend.SnapshotSource)
	}

	if c.Database.Postgres.Enabled() {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	}

	if c.Feed.MaxRetries < 0 {
		return errors.New("feed.max_retries must be >= 0")
	}
	if c.Feed.RetryDelay < 0 {
		return errors.New("feed.retry_delay must be >= 0")
	}
	if c.Feed.HeartbeatInterval <= 0 {
		return errors.New("feed.heartbeat_interval must be > 0")
	}
	if c.Feed.PingTimeout < c.Feed.HeartbeatInterval {
		return fmt.Errorf("feed.ping_timeout (%v) must be >= feed.heartbeat_interval (%v)",
			c.Feed.PingTimeout, c.Feed.HeartbeatInterval)
	}

	for code, f := range c.Rates.Static {
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return fmt.Errorf("rates.static.%s must be > 0, got %v", code, f)
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-board
backend:
  rest_url: https://demo.supabase.co
  realtime_url: wss://demo.supabase.co/realtime/v1/websocket
  api_key: anon-key
feed:
  currency: GBP
  retry_delay: 500ms
rates:
  static:
    EUR: 1
    GBP: 0.85
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-board" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-board")
	}
	if cfg.Backend.RestURL != "https://demo.supabase.co" {
		t.Errorf("Backend.RestURL = %q, want %q", cfg.Backend.RestURL, "https://demo.supabase.co")
	}
	if cfg.Feed.Currency != "GBP" {
		t.Errorf("Feed.Currency = %q, want GBP", cfg.Feed.Currency)
	}
	if cfg.Feed.RetryDelay != 500*time.Millisecond {
		t.Errorf("Feed.RetryDelay = %v, want 500ms", cfg.Feed.RetryDelay)
	}
	if cfg.Rates.Static["GBP"] != 0.85 {
		t.Errorf("Rates.Static[GBP] = %v, want 0.85", cfg.Rates.Static["GBP"])
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BACKEND_KEY", "secret123")

	yaml := `
instance:
  id: test-board
backend:
  rest_url: https://demo.supabase.co
  realtime_url: wss://demo.supabase.co/realtime/v1/websocket
  api_key: ${TEST_BACKEND_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.APIKey != "secret123" {
		t.Errorf("Backend.APIKey = %q, want %q", cfg.Backend.APIKey, "secret123")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TEST_ENV_FILE_VALUE=from-file\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TEST_ENV_FILE_VALUE", "")
	os.Unsetenv("TEST_ENV_FILE_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if got := os.Getenv("TEST_ENV_FILE_VALUE"); got != "from-file" {
		t.Errorf("TEST_ENV_FILE_VALUE = %q, want %q", got, "from-file")
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadEnvFile(missing) = %v, want nil", err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-board
backend:
  rest_url: https://demo.supabase.co
  realtime_url: wss://demo.supabase.co/realtime/v1/websocket
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Backend.Table != DefaultTable {
		t.Errorf("Backend.Table = %q, want default %q", cfg.Backend.Table, DefaultTable)
	}
	if cfg.Backend.SnapshotSource != SnapshotSourceREST {
		t.Errorf("Backend.SnapshotSource = %q, want %q", cfg.Backend.SnapshotSource, SnapshotSourceREST)
	}
	if cfg.Feed.MaxRetries != DefaultFeedMaxRetries {
		t.Errorf("Feed.MaxRetries = %d, want default %d", cfg.Feed.MaxRetries, DefaultFeedMaxRetries)
	}
	if cfg.Feed.RetryDelay != DefaultRetryDelay {
		t.Errorf("Feed.RetryDelay = %v, want default %v", cfg.Feed.RetryDelay, DefaultRetryDelay)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want default %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Session.Key != DefaultSessionKey {
		t.Errorf("Session.Key = %q, want default %q", cfg.Session.Key, DefaultSessionKey)
	}
	if len(cfg.Rates.Static) == 0 {
		t.Error("Rates.Static should default to the built-in table")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after defaults: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() BoardConfig {
		cfg := BoardConfig{
			Instance: InstanceConfig{ID: "test"},
			Backend: BackendConfig{
				RestURL:     "https://demo.supabase.co",
				RealtimeURL: "wss://demo.supabase.co/realtime/v1/websocket",
			},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*BoardConfig)
		wantErr string
	}{
		{
			name:    "missing instance id",
			mutate:  func(c *BoardConfig) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "missing realtime url",
			mutate:  func(c *BoardConfig) { c.Backend.RealtimeURL = "" },
			wantErr: "backend.realtime_url is required",
		},
		{
			name:    "postgres snapshots without database",
			mutate:  func(c *BoardConfig) { c.Backend.SnapshotSource = SnapshotSourcePostgres },
			wantErr: "database.postgres is required for postgres snapshots",
		},
		{
			name:    "unknown snapshot source",
			mutate:  func(c *BoardConfig) { c.Backend.SnapshotSource = "graphql" },
			wantErr: `backend.snapshot_source must be "rest" or "postgres", got "graphql"`,
		},
		{
			name: "missing postgres password",
			mutate: func(c *BoardConfig) {
				c.Database.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", MaxConns: 5}
			},
			wantErr: "database.postgres.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *BoardConfig) {
				c.Database.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.postgres.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "ping timeout below heartbeat",
			mutate:  func(c *BoardConfig) { c.Feed.PingTimeout = time.Second },
			wantErr: "feed.ping_timeout (1s) must be >= feed.heartbeat_interval (30s)",
		},
		{
			name:    "non-positive static rate",
			mutate:  func(c *BoardConfig) { c.Rates.Static = map[string]float64{"EUR": 0} },
			wantErr: "rates.static.EUR must be > 0, got 0",
		},
		{
			name:    "NaN static rate",
			mutate:  func(c *BoardConfig) { c.Rates.Static = map[string]float64{"USD": math.NaN()} },
			wantErr: "rates.static.USD must be > 0, got NaN",
		},
		{
			name:    "infinite static rate",
			mutate:  func(c *BoardConfig) { c.Rates.Static = map[string]float64{"USD": math.Inf(1)} },
			wantErr: "rates.static.USD must be > 0, got +Inf",
		},
		{
			name:    "valid config",
			mutate:  func(c *BoardConfig) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

package database

import (
	"fmt"
	"net/url"

	"github.com/overtimestaff/marketboard/internal/config"
)

// BuildConnString builds the connection string for the backend's Postgres
// database. Pooler users carry the project ref ("postgres.<ref>"), so both the
// user and the password are escaped.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}

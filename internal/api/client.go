package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/overtimestaff/marketboard/internal/auth"
)

// DefaultTable is the listings table.
const DefaultTable = "market_updates"

// Client provides access to the backend REST API.
type Client struct {
	baseURL    string
	creds      auth.Credentials
	table      string
	schema     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   auth.Credentials{APIKey: apiKey},
		table:   DefaultTable,
		schema:  "public",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTable sets the table and schema queried.
func WithTable(schema, table string) ClientOption {
	return func(c *Client) {
		c.schema = schema
		c.table = table
	}
}

// WithAccessToken authenticates requests as a user instead of the anon key.
func WithAccessToken(token string) ClientOption {
	return func(c *Client) {
		c.creds.AccessToken = token
	}
}

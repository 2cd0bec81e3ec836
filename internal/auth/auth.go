// Package auth builds the credentials headers the hosted backend expects.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrNoAPIKey is returned when credentials carry no API key.
var ErrNoAPIKey = errors.New("backend api key is required")

// RealtimeProtocolVersion is the Phoenix serializer version requested from the realtime endpoint.
const RealtimeProtocolVersion = "1.0.0"

// Credentials holds the project API key and an optional user access token.
type Credentials struct {
	APIKey      string // anon or service-role key
	AccessToken string // user JWT; falls back to APIKey when empty
}

// bearer returns the token sent in the Authorization header.
func (c Credentials) bearer() string {
	if c.AccessToken != "" {
		return c.AccessToken
	}
	return c.APIKey
}

// Apply sets the authentication headers on h. Empty credentials set nothing.
func (c Credentials) Apply(h http.Header) {
	if c.APIKey == "" {
		return
	}
	h.Set("apikey", c.APIKey)
	h.Set("Authorization", "Bearer "+c.bearer())
}

// RealtimeURL appends the apikey and protocol version query parameters to a websocket URL.
func (c Credentials) RealtimeURL(base string) (string, error) {
	if c.APIKey == "" {
		return "", ErrNoAPIKey
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse realtime url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported realtime url scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set("apikey", c.APIKey)
	q.Set("vsn", RealtimeProtocolVersion)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

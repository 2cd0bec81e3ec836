package connection

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no heartbeat reply)")
	ErrTimeout         = errors.New("operation timeout")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrJoinRejected    = errors.New("channel join rejected")
)

// Phoenix topics and events.
const (
	TopicPhoenix = "phoenix"

	EventJoin            = "phx_join"
	EventLeave           = "phx_leave"
	EventReply           = "phx_reply"
	EventError           = "phx_error"
	EventClose           = "phx_close"
	EventHeartbeat       = "heartbeat"
	EventPostgresChanges = "postgres_changes"
	EventSystem          = "system"
)

// Reply statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Frame is a Phoenix v1 JSON message.
type Frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
	JoinRef *string         `json:"join_ref,omitempty"`
}

// RefString returns the frame ref, or "" for server pushes.
func (f Frame) RefString() string {
	if f.Ref == nil {
		return ""
	}
	return *f.Ref
}

// ReplyPayload is the payload of a phx_reply frame.
type ReplyPayload struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

// ParseFrame decodes a raw message into a frame.
func ParseFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, err
	}
	if f.Topic == "" || f.Event == "" {
		return Frame{}, errors.New("frame missing topic or event")
	}
	return f, nil
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL               string        // Realtime URL including apikey and vsn query parameters
	Header            http.Header   // Extra handshake headers
	HeartbeatInterval time.Duration // Interval between Phoenix heartbeats
	PingTimeout       time.Duration // Max time without any inbound traffic before considering connection stale
	WriteTimeout      time.Duration // Write deadline for sends
	HandshakeTimeout  time.Duration // Dial handshake timeout
	BufferSize        int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HeartbeatInterval: 30 * time.Second,
		PingTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		BufferSize:        256,
	}
}

package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// JoinError is returned when the server answers a join with status "error".
type JoinError struct {
	Topic    string
	Response string
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join %s: %s", e.Topic, e.Response)
}

func (e *JoinError) Unwrap() error {
	return ErrJoinRejected
}

// Join sends phx_join for topic and waits for the matching reply.
// Frames that arrive before the reply are dropped. The returned ref is the
// join ref to pass on subsequent pushes for the topic.
func Join(ctx context.Context, c Client, topic string, payload any, timeout time.Duration, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ref, err := c.Push(topic, EventJoin, payload, "")
	if err != nil {
		return "", fmt.Errorf("send join: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "", ErrTimeout
		case err := <-c.Errors():
			return "", fmt.Errorf("awaiting join reply: %w", err)
		case msg := <-c.Messages():
			frame, err := ParseFrame(msg.Data)
			if err != nil {
				logger.Debug("dropping unparseable frame during join", "error", err)
				continue
			}
			if frame.Event != EventReply || frame.Topic != topic || frame.RefString() != ref {
				logger.Debug("dropping frame during join", "topic", frame.Topic, "event", frame.Event)
				continue
			}

			var reply ReplyPayload
			if err := json.Unmarshal(frame.Payload, &reply); err != nil {
				return "", fmt.Errorf("decode join reply: %w", err)
			}
			if reply.Status != StatusOK {
				return "", &JoinError{Topic: topic, Response: string(reply.Response)}
			}
			return ref, nil
		}
	}
}

package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/overtimestaff/marketboard/internal/connection"
	"github.com/overtimestaff/marketboard/internal/model"
)

// ErrNoRecord is returned for a change frame without a row image.
var ErrNoRecord = errors.New("change has no record")

// Stats contains runtime statistics.
type Stats struct {
	MessagesReceived int64
	MessagesRouted   int64
	ParseErrors      int64
	SkippedMessages  int64
}

// Router parses frames for a single joined topic.
// Route is safe to call from one goroutine; Stats from any.
type Router struct {
	topic  string
	logger *slog.Logger

	received    atomic.Int64
	routed      atomic.Int64
	parseErrors atomic.Int64
	skipped     atomic.Int64
}

// New creates a router for frames on topic.
func New(topic string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		topic:  topic,
		logger: logger,
	}
}

// Stats returns current statistics.
func (r *Router) Stats() Stats {
	return Stats{
		MessagesReceived: r.received.Load(),
		MessagesRouted:   r.routed.Load(),
		ParseErrors:      r.parseErrors.Load(),
		SkippedMessages:  r.skipped.Load(),
	}
}

// Route parses a raw message. It returns false when the message carries no
// board event or could not be parsed; parse failures are logged and counted.
func (r *Router) Route(data []byte) (model.Event, bool) {
	r.received.Add(1)

	frame, err := connection.ParseFrame(data)
	if err != nil {
		r.logger.Warn("failed to parse frame", "error", err)
		r.parseErrors.Add(1)
		return nil, false
	}

	ev, ok, err := ToEvent(r.topic, frame)
	if err != nil {
		r.logger.Warn("dropping malformed change",
			"event", frame.Event,
			"error", err,
		)
		r.parseErrors.Add(1)
		return nil, false
	}
	if !ok {
		r.skipped.Add(1)
		return nil, false
	}

	r.routed.Add(1)
	return ev, true
}

// ToEvent converts a frame on topic into a board event.
// The bool is false for frames that carry no event.
func ToEvent(topic string, frame connection.Frame) (model.Event, bool, error) {
	if frame.Topic != topic {
		return nil, false, nil
	}

	switch frame.Event {
	case connection.EventPostgresChanges:
		return parseChange(frame.Payload)

	case connection.EventError:
		return model.DisconnectEvent{Reason: closedReason(frame.Payload, "channel error")}, true, nil

	case connection.EventClose:
		return model.DisconnectEvent{Reason: closedReason(frame.Payload, "channel closed")}, true, nil

	case connection.EventSystem:
		var sys systemPayload
		if err := json.Unmarshal(frame.Payload, &sys); err != nil {
			return nil, false, fmt.Errorf("decode system payload: %w", err)
		}
		if sys.Status == connection.StatusError {
			reason := sys.Message
			if reason == "" {
				reason = "system error"
			}
			return model.DisconnectEvent{Reason: reason}, true, nil
		}
		return nil, false, nil
	}

	return nil, false, nil
}

func parseChange(payload json.RawMessage) (model.Event, bool, error) {
	var p changesPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, false, fmt.Errorf("decode change payload: %w", err)
	}

	change := p.changeData
	if p.Data != nil {
		change = *p.Data
	}

	switch change.Type {
	case ChangeInsert, ChangeUpdate:
	default:
		return nil, false, nil
	}

	if len(change.Record) == 0 || string(change.Record) == "null" {
		return nil, false, ErrNoRecord
	}

	row, err := decodeRow(change.Record)
	if err != nil {
		return nil, false, fmt.Errorf("decode record: %w", err)
	}
	if err := row.Validate(); err != nil {
		return nil, false, err
	}

	if change.Type == ChangeInsert {
		return model.InsertEvent{Row: row}, true, nil
	}
	return model.UpdateEvent{Row: row}, true, nil
}

func closedReason(payload json.RawMessage, fallback string) string {
	var p closedPayload
	if len(payload) > 0 && json.Unmarshal(payload, &p) == nil && p.Reason != "" {
		return p.Reason
	}
	return fallback
}

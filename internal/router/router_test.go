package router

import (
	"errors"
	"testing"

	"github.com/overtimestaff/marketboard/internal/connection"
	"github.com/overtimestaff/marketboard/internal/model"
)

const topic = "realtime:market-updates"

func TestRoute(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		wantOK bool
		check  func(t *testing.T, ev model.Event)
	}{
		{
			name:   "insert",
			data:   `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"INSERT","schema":"public","table":"market_updates","record":{"id":109,"type":"URGENT","title":"Night shift","location":"Leeds","original_rate":25,"currency":"EUR","region":"UK","highlight":true,"created_at":"2024-05-01T10:00:00Z","urgency_level":"high"}},"ids":[1]},"ref":null}`,
			wantOK: true,
			check: func(t *testing.T, ev model.Event) {
				ins, ok := ev.(model.InsertEvent)
				if !ok {
					t.Fatalf("event = %T, want InsertEvent", ev)
				}
				if ins.Row.ID != "109" || ins.Row.Title != "Night shift" {
					t.Errorf("row = %+v", ins.Row)
				}
			},
		},
		{
			name:   "update with flat payload",
			data:   `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"type":"UPDATE","record":{"id":"102","type":"SWAP","title":"Swap","original_rate":null,"currency":"GBP"}},"ref":null}`,
			wantOK: true,
			check: func(t *testing.T, ev model.Event) {
				upd, ok := ev.(model.UpdateEvent)
				if !ok {
					t.Fatalf("event = %T, want UpdateEvent", ev)
				}
				if upd.Row.ID != "102" || upd.Row.OriginalRate != nil {
					t.Errorf("row = %+v", upd.Row)
				}
			},
		},
		{
			name:   "phx_error",
			data:   `{"topic":"realtime:market-updates","event":"phx_error","payload":{},"ref":"1"}`,
			wantOK: true,
			check: func(t *testing.T, ev model.Event) {
				dis, ok := ev.(model.DisconnectEvent)
				if !ok {
					t.Fatalf("event = %T, want DisconnectEvent", ev)
				}
				if dis.Reason != "channel error" {
					t.Errorf("Reason = %q, want %q", dis.Reason, "channel error")
				}
			},
		},
		{
			name:   "phx_close with reason",
			data:   `{"topic":"realtime:market-updates","event":"phx_close","payload":{"reason":"leave"},"ref":"2"}`,
			wantOK: true,
			check: func(t *testing.T, ev model.Event) {
				if dis := ev.(model.DisconnectEvent); dis.Reason != "leave" {
					t.Errorf("Reason = %q, want leave", dis.Reason)
				}
			},
		},
		{
			name:   "system error",
			data:   `{"topic":"realtime:market-updates","event":"system","payload":{"status":"error","message":"replication slot busy","extension":"postgres_changes"},"ref":null}`,
			wantOK: true,
			check: func(t *testing.T, ev model.Event) {
				if dis := ev.(model.DisconnectEvent); dis.Reason != "replication slot busy" {
					t.Errorf("Reason = %q", dis.Reason)
				}
			},
		},
		{
			name:   "system ok is skipped",
			data:   `{"topic":"realtime:market-updates","event":"system","payload":{"status":"ok","message":"Subscribed to PostgreSQL"},"ref":null}`,
			wantOK: false,
		},
		{
			name:   "heartbeat reply is skipped",
			data:   `{"topic":"phoenix","event":"phx_reply","payload":{"status":"ok","response":{}},"ref":"5"}`,
			wantOK: false,
		},
		{
			name:   "delete is skipped",
			data:   `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"DELETE","old_record":{"id":1}}},"ref":null}`,
			wantOK: false,
		},
		{
			name:   "other topic is skipped",
			data:   `{"topic":"realtime:other","event":"phx_error","payload":{},"ref":null}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(topic, nil)
			ev, ok := r.Route([]byte(tt.data))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, ev)
			}
		})
	}
}

func TestRouteRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"unknown type", `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"INSERT","record":{"id":1,"type":"LOTTERY"}}},"ref":null}`},
		{"negative rate", `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"INSERT","record":{"id":1,"type":"URGENT","original_rate":-3}}},"ref":null}`},
		{"unknown urgency", `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"UPDATE","record":{"id":1,"type":"URGENT","urgency_level":"critical"}}},"ref":null}`},
		{"missing record", `{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"INSERT"}},"ref":null}`},
	}

	r := New(topic, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := r.Route([]byte(tt.data)); ok {
				t.Error("expected message to be dropped")
			}
		})
	}

	stats := r.Stats()
	if stats.ParseErrors != int64(len(tests)) {
		t.Errorf("ParseErrors = %d, want %d", stats.ParseErrors, len(tests))
	}
	if stats.MessagesRouted != 0 {
		t.Errorf("MessagesRouted = %d, want 0", stats.MessagesRouted)
	}
}

func TestRouterStats(t *testing.T) {
	r := New(topic, nil)
	r.Route([]byte(`{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"INSERT","record":{"id":1,"type":"URGENT"}}},"ref":null}`))
	r.Route([]byte(`{"topic":"phoenix","event":"phx_reply","payload":{},"ref":"1"}`))

	stats := r.Stats()
	if stats.MessagesReceived != 2 {
		t.Errorf("MessagesReceived = %d, want 2", stats.MessagesReceived)
	}
	if stats.MessagesRouted != 1 {
		t.Errorf("MessagesRouted = %d, want 1", stats.MessagesRouted)
	}
	if stats.SkippedMessages != 1 {
		t.Errorf("SkippedMessages = %d, want 1", stats.SkippedMessages)
	}
}

func TestToEventMissingID(t *testing.T) {
	frame, err := connection.ParseFrame([]byte(`{"topic":"realtime:market-updates","event":"postgres_changes","payload":{"data":{"type":"INSERT","record":{"type":"URGENT"}}},"ref":null}`))
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}

	_, ok, err := ToEvent(topic, frame)
	if ok {
		t.Error("ok = true, want false")
	}
	if !errors.Is(err, model.ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
}

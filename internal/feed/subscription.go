package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/overtimestaff/marketboard/internal/connection"
	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/model"
	"github.com/overtimestaff/marketboard/internal/router"
)

// SubscribeParams configures a subscription.
type SubscribeParams struct {
	Currency string
	Rates    currency.Rates

	OnInsert func(model.MarketUpdate)
	OnUpdate func(model.MarketUpdate)

	// OnState reports StateLive on every (re)join, StateReconnecting with the
	// disconnect cause, and StateStalled with ErrChannelExhausted.
	OnState func(State, error)
}

// Subscription is a live realtime subscription.
type Subscription struct {
	client *Client
	params SubscribeParams
	logger *slog.Logger
	router *router.Router

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error
}

// Subscribe opens the realtime channel and starts delivering changes.
// It returns immediately; connection progress is reported through OnState.
func (c *Client) Subscribe(ctx context.Context, p SubscribeParams) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	logger := c.logger.With("topic", c.cfg.Topic)

	s := &Subscription{
		client: c,
		params: p,
		logger: logger,
		router: router.New(c.cfg.Topic, logger),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go s.run(ctx)
	return s
}

// Unsubscribe stops the subscription and waits for its goroutine to exit.
// Safe to call more than once. Must not be called from a callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed when the subscription stops, either by Unsubscribe or by stalling.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns ErrChannelExhausted once retries are spent, otherwise nil.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stats returns frame routing statistics.
func (s *Subscription) Stats() router.Stats {
	return s.router.Stats()
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)

	retries := 0
	joined := false

	for {
		conn, joinRef, err := s.open(ctx)
		if err == nil {
			retries = 0
			if joined {
				s.handle(ctx, model.ReconnectEvent{})
			} else {
				joined = true
				s.notify(ctx, StateLive, nil)
			}

			err = s.pump(ctx, conn, joinRef)
			conn.Close()
		}

		if ctx.Err() != nil {
			return
		}

		if retries >= s.client.cfg.MaxRetries {
			s.logger.Error("realtime channel stalled",
				"retries", retries,
				"error", err,
			)
			s.mu.Lock()
			s.err = ErrChannelExhausted
			s.mu.Unlock()
			s.notify(ctx, StateStalled, ErrChannelExhausted)
			return
		}

		retries++
		s.logger.Warn("realtime channel lost, retrying",
			"attempt", retries,
			"max_retries", s.client.cfg.MaxRetries,
			"delay", s.client.cfg.RetryDelay,
			"error", err,
		)
		s.notify(ctx, StateReconnecting, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.client.cfg.RetryDelay):
		}
	}
}

// open dials the realtime endpoint and joins the topic.
func (s *Subscription) open(ctx context.Context) (connection.Client, string, error) {
	cfg := s.client.cfg
	conn := s.client.newConn(connection.ClientConfig{
		URL:               cfg.RealtimeURL,
		Header:            cfg.Header,
		HeartbeatInterval: cfg.HeartbeatInterval,
		PingTimeout:       cfg.PingTimeout,
	}, s.logger)

	if err := conn.Connect(ctx); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("%w: dial: %v", ErrDisconnected, err)
	}

	joinRef, err := connection.Join(ctx, conn, cfg.Topic, s.client.joinPayload(), cfg.JoinTimeout, s.logger)
	if err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("%w: join: %v", ErrDisconnected, err)
	}

	s.logger.Info("realtime channel joined")
	return conn, joinRef, nil
}

// pump delivers frames until the connection drops or ctx is cancelled.
func (s *Subscription) pump(ctx context.Context, conn connection.Client, joinRef string) error {
	for {
		select {
		case <-ctx.Done():
			conn.Push(s.client.cfg.Topic, connection.EventLeave, nil, joinRef)
			return ctx.Err()

		case err := <-conn.Errors():
			return fmt.Errorf("%w: %v", ErrDisconnected, err)

		case msg := <-conn.Messages():
			ev, ok := s.router.Route(msg.Data)
			if !ok {
				continue
			}
			if err := s.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// handle dispatches a single event. A DisconnectEvent ends the connection.
func (s *Subscription) handle(ctx context.Context, ev model.Event) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	p := s.params
	switch e := ev.(type) {
	case model.InsertEvent:
		u := Normalize(e.Row, p.Currency, p.Rates)
		u.IsNew = true
		if p.OnInsert != nil {
			p.OnInsert(u)
		}
	case model.UpdateEvent:
		u := Normalize(e.Row, p.Currency, p.Rates)
		u.IsUpdating = true
		if p.OnUpdate != nil {
			p.OnUpdate(u)
		}
	case model.DisconnectEvent:
		return fmt.Errorf("%w: %s", ErrDisconnected, e.Reason)
	case model.ReconnectEvent:
		s.logger.Info("realtime channel rejoined")
		s.notify(ctx, StateLive, nil)
	default:
		return errors.New("unknown event")
	}
	return nil
}

func (s *Subscription) notify(ctx context.Context, state State, err error) {
	if s.params.OnState == nil {
		return
	}
	// No callbacks after cancel.
	if ctx.Err() != nil {
		return
	}
	s.params.OnState(state, err)
}

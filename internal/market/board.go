package market

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/feed"
	"github.com/overtimestaff/marketboard/internal/model"
)

// Errors
var (
	ErrClosed    = errors.New("board closed")
	ErrDiscarded = errors.New("fetch result discarded")
	ErrNotPaused = errors.New("live updates are not paused")
)

// Banner messages.
const (
	BannerFetchFailed = "Unable to load the latest market updates. Showing the last known listings."
	BannerStalled     = "Live updates are paused. Resume to reconnect."
)

// Subscription is an open realtime subscription.
type Subscription interface {
	Unsubscribe()
}

// Feed is the board's view of the market update feed.
type Feed interface {
	FetchSnapshot(ctx context.Context, code string, rates currency.Rates) ([]model.MarketUpdate, error)
	Subscribe(ctx context.Context, p feed.SubscribeParams) Subscription
}

type clientFeed struct {
	*feed.Client
}

func (f clientFeed) Subscribe(ctx context.Context, p feed.SubscribeParams) Subscription {
	return f.Client.Subscribe(ctx, p)
}

// FromClient adapts a feed client to Feed.
func FromClient(c *feed.Client) Feed {
	return clientFeed{Client: c}
}

// Options configures a Board.
type Options struct {
	Currency string
	Rates    currency.Rates
	Logger   *slog.Logger
	Now      func() time.Time
}

// View is an immutable snapshot of the board.
type View struct {
	Items          []model.MarketUpdate `json:"items"`
	LiveIndex      []model.MarketUpdate `json:"live_index"`
	EmergencyIndex []model.MarketUpdate `json:"emergency_index"`
	State          feed.State           `json:"state"`
	Banner         string               `json:"banner,omitempty"`
	Stale          bool                 `json:"stale"`
	Currency       string               `json:"currency"`
	LastUpdated    time.Time            `json:"last_updated"`
	Clock          string               `json:"clock"`
}

// Board owns one active listing list and the feed lifecycle behind it.
type Board struct {
	feed     Feed
	currency string
	rates    currency.Rates
	logger   *slog.Logger
	now      func() time.Time

	// fetchMu serializes snapshot loads.
	fetchMu sync.Mutex

	mu          sync.Mutex
	rec         *Reconciler
	state       feed.State
	banner      string
	stale       bool
	lastUpdated time.Time
	sub         Subscription
	subGen      uint64
	gen         uint64
	closed      bool
}

// NewBoard creates an idle board.
func NewBoard(f Feed, opts Options) *Board {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}

	return &Board{
		feed:     f,
		currency: opts.Currency,
		rates:    opts.Rates,
		logger:   opts.Logger,
		now:      opts.Now,
		rec:      NewReconciler(),
		state:    feed.StateIdle,
	}
}

// Start loads the first snapshot and opens the realtime subscription.
// A fetch failure leaves the board idle with a banner and is also returned.
func (b *Board) Start(ctx context.Context) error {
	return b.load(ctx, false)
}

// Refresh reloads the snapshot. From Idle a successful refresh also opens the
// subscription. A stalled board refreshes its list but stays stalled.
func (b *Board) Refresh(ctx context.Context) error {
	return b.load(ctx, false)
}

// Resume restarts live updates after the channel stalled.
func (b *Board) Resume(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.state != feed.StateStalled && b.state != feed.StateIdle {
		b.mu.Unlock()
		return ErrNotPaused
	}
	sub := b.sub
	b.sub = nil
	b.subGen++
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}

	b.logger.Info("resuming live updates")
	return b.load(ctx, true)
}

// Close stops the subscription. Fetches that complete afterwards are discarded.
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.gen++
	b.subGen++
	sub := b.sub
	b.sub = nil
	b.state = feed.StateIdle
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	b.logger.Info("board closed")
}

// DismissBanner clears the banner.
func (b *Board) DismissBanner() {
	b.mu.Lock()
	b.banner = ""
	b.mu.Unlock()
}

// State returns the current feed state.
func (b *Board) State() feed.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Currency returns the display currency.
func (b *Board) Currency() string {
	return b.currency
}

// View returns a snapshot of the board.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	return View{
		Items:          b.rec.Items(),
		LiveIndex:      b.rec.LiveIndex(),
		EmergencyIndex: b.rec.EmergencyIndex(),
		State:          b.state,
		Banner:         b.banner,
		Stale:          b.stale,
		Currency:       b.currency,
		LastUpdated:    b.lastUpdated,
		Clock:          FormatClock(b.now()),
	}
}

// load fetches a snapshot and, when the board is not yet live, subscribes.
func (b *Board) load(ctx context.Context, resume bool) error {
	b.fetchMu.Lock()
	defer b.fetchMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	gen := b.gen
	stalled := b.state == feed.StateStalled && !resume
	if b.state == feed.StateIdle || (b.state == feed.StateStalled && resume) {
		b.setStateLocked(feed.StateFetching)
	}
	b.mu.Unlock()

	items, err := b.feed.FetchSnapshot(ctx, b.currency, b.rates)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || gen != b.gen {
		b.logger.Debug("discarding fetch result after close")
		return ErrDiscarded
	}

	if err != nil {
		b.logger.Warn("snapshot fetch failed", "error", err)
		if b.rec.Len() == 0 {
			b.rec.Seed(DemoListings(b.currency, b.rates))
		}
		b.banner = BannerFetchFailed
		b.stale = true
		if b.state == feed.StateFetching {
			b.setStateLocked(feed.StateIdle)
		}
		return err
	}

	b.rec.Seed(items)
	b.lastUpdated = b.now()
	if b.banner == BannerFetchFailed {
		b.banner = ""
	}

	if stalled {
		return nil
	}
	b.stale = false

	if b.state == feed.StateFetching {
		b.setStateLocked(feed.StateLive)
		b.banner = ""
		b.subscribeLocked()
	}

	b.logger.Info("snapshot loaded", "items", len(items), "state", b.state)
	return nil
}

// subscribeLocked opens a subscription whose callbacks are tied to the current generation.
func (b *Board) subscribeLocked() {
	b.subGen++
	gen := b.subGen

	b.sub = b.feed.Subscribe(context.Background(), feed.SubscribeParams{
		Currency: b.currency,
		Rates:    b.rates,
		OnInsert: func(u model.MarketUpdate) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.closed || gen != b.subGen {
				return
			}
			b.rec.ApplyInsert(u)
			b.lastUpdated = b.now()
		},
		OnUpdate: func(u model.MarketUpdate) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.closed || gen != b.subGen {
				return
			}
			if b.rec.ApplyUpdate(u) {
				b.lastUpdated = b.now()
			}
		},
		OnState: func(s feed.State, err error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.closed || gen != b.subGen {
				return
			}
			b.onStateLocked(s, err)
		},
	})
}

func (b *Board) onStateLocked(s feed.State, err error) {
	if s == b.state {
		return
	}
	if !b.setStateLocked(s) {
		return
	}

	switch s {
	case feed.StateLive:
		b.stale = false
		if b.banner == BannerStalled {
			b.banner = ""
		}
	case feed.StateReconnecting:
		b.logger.Warn("live updates interrupted", "error", err)
	case feed.StateStalled:
		b.stale = true
		b.banner = BannerStalled
		b.logger.Error("live updates stalled", "error", err)
	}
}

func (b *Board) setStateLocked(s feed.State) bool {
	if !b.state.CanTransition(s) {
		b.logger.Debug("ignoring state change", "from", b.state, "to", s)
		return false
	}
	b.logger.Debug("state change", "from", b.state, "to", s)
	b.state = s
	return true
}

package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher reloads a snapshot. Implemented by market.Board.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Config holds poller configuration.
type Config struct {
	Schedule   string        // Cron spec or descriptor (default: "@every 5m")
	Timeout    time.Duration // Per-refresh timeout (default: 30s)
	RunOnStart bool          // Refresh immediately on Start
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Schedule:   "@every 5m",
		Timeout:    30 * time.Second,
		RunOnStart: true,
	}
}

// Poller periodically refreshes a board.
type Poller struct {
	cfg      Config
	target   Refresher
	logger   *slog.Logger
	schedule cron.Schedule
	job      cron.Job

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	runs   atomic.Int64
	errors atomic.Int64
}

// New creates a new Poller. The schedule is parsed up front.
func New(cfg Config, target Refresher, logger *slog.Logger) (*Poller, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultConfig().Schedule
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", cfg.Schedule, err)
	}

	p := &Poller{
		cfg:      cfg,
		target:   target,
		logger:   logger,
		schedule: schedule,
		ctx:      context.Background(),
	}

	cl := cronLogger{logger: logger}
	p.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(p.poll))
	return p, nil
}

// Start begins the refresh schedule.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.cron = cron.New(cron.WithLogger(cronLogger{logger: p.logger}))
	p.cron.Schedule(p.schedule, p.job)
	p.cron.Start()

	if p.cfg.RunOnStart {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.job.Run()
		}()
	}

	p.logger.Info("snapshot poller started",
		"schedule", p.cfg.Schedule,
		"run_on_start", p.cfg.RunOnStart,
	)

	return nil
}

// Stop gracefully shuts down the poller, waiting for a running refresh.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		if p.cron != nil {
			<-p.cron.Stop().Done()
		}
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped",
			"runs", p.runs.Load(),
			"errors", p.errors.Load(),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runs returns the number of completed refreshes.
func (p *Poller) Runs() int64 {
	return p.runs.Load()
}

// poll performs a single refresh.
func (p *Poller) poll() {
	if p.ctx.Err() != nil {
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	err := p.target.Refresh(ctx)
	p.runs.Add(1)
	if err != nil {
		p.errors.Add(1)
		p.logger.Warn("snapshot refresh failed",
			"err", err,
			"duration", time.Since(start),
		)
		return
	}

	p.logger.Debug("snapshot refreshed", "duration", time.Since(start))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"err", err}, keysAndValues...)...)
}

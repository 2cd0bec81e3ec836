// marketboard serves the live market-update board over HTTP.
// Usage: go run ./cmd/marketboard --config configs/marketboard.example.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/overtimestaff/marketboard/internal/api"
	"github.com/overtimestaff/marketboard/internal/auth"
	"github.com/overtimestaff/marketboard/internal/config"
	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/database"
	"github.com/overtimestaff/marketboard/internal/feed"
	"github.com/overtimestaff/marketboard/internal/httpapi"
	"github.com/overtimestaff/marketboard/internal/market"
	"github.com/overtimestaff/marketboard/internal/poller"
	"github.com/overtimestaff/marketboard/internal/rates"
	"github.com/overtimestaff/marketboard/internal/session"
	"github.com/overtimestaff/marketboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/marketboard.local.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting marketboard",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if err := run(*configPath, *envFile, logger); err != nil {
		logger.Error("marketboard failed", "error", err)
		os.Exit(1)
	}
	logger.Info("marketboard stopped")
}

func run(configPath, envFile string, logger *slog.Logger) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"rest_url", cfg.Backend.RestURL,
		"snapshot_source", cfg.Backend.SnapshotSource,
		"currency", cfg.Feed.Currency,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Exchange rates are loaded once for the life of the board.
	table, err := loadRates(ctx, cfg, logger)
	if err != nil {
		return err
	}

	apiClient := api.NewClient(
		cfg.Backend.RestURL,
		cfg.Backend.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Backend.Timeout),
		api.WithRetries(cfg.Backend.MaxRetries, time.Second),
		api.WithTable(cfg.Backend.Schema, cfg.Backend.Table),
	)

	var (
		source feed.SnapshotSource = apiClient
		writer httpapi.ListingWriter = apiClient
	)
	if cfg.Backend.SnapshotSource == config.SnapshotSourcePostgres {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		store := database.NewStore(pool, cfg.Backend.Schema, cfg.Backend.Table)
		source, writer = store, store
		logger.Info("database connected")
	}

	creds := auth.Credentials{APIKey: cfg.Backend.APIKey}
	realtimeURL, err := creds.RealtimeURL(cfg.Backend.RealtimeURL)
	if err != nil {
		return fmt.Errorf("realtime url: %w", err)
	}
	header := http.Header{}
	creds.Apply(header)

	feedClient := feed.NewClient(feed.Config{
		RealtimeURL:       realtimeURL,
		Header:            header,
		Schema:            cfg.Backend.Schema,
		Table:             cfg.Backend.Table,
		MaxRetries:        cfg.Feed.MaxRetries,
		RetryDelay:        cfg.Feed.RetryDelay,
		HeartbeatInterval: cfg.Feed.HeartbeatInterval,
		PingTimeout:       cfg.Feed.PingTimeout,
		JoinTimeout:       cfg.Feed.JoinTimeout,
	}, source, logger.With("component", "feed"))

	board := market.NewBoard(market.FromClient(feedClient), market.Options{
		Currency: cfg.Feed.Currency,
		Rates:    table,
		Logger:   logger.With("component", "board"),
	})
	defer board.Close()

	sessionStore, err := session.NewSQLiteStore(cfg.Session.Path)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessionStore.Close()

	sessions := session.NewManager(sessionStore, cfg.Session.Key, logger.With("component", "session"))
	if err := sessions.Init(ctx); err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	// The poller's first run is the board's initial load.
	pollCfg := poller.DefaultConfig()
	pollCfg.Schedule = cfg.Poller.Schedule
	pl, err := poller.New(pollCfg, board, logger.With("component", "poller"))
	if err != nil {
		return fmt.Errorf("create poller: %w", err)
	}

	srv := httpapi.New(httpapi.Config{
		Board:    board,
		Writer:   writer,
		Sessions: sessions,
		Rates:    table,
		Logger:   logger,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := pl.Start(gctx); err != nil {
			return fmt.Errorf("start poller: %w", err)
		}
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return pl.Stop(shutdownCtx)
	})

	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info("marketboard running",
		"instance_id", cfg.Instance.ID,
		"board_url", fmt.Sprintf("http://localhost:%d/api/market-updates", cfg.Server.Port),
	)

	return g.Wait()
}

// loadRates reads the exchange-rate table from Redis when configured, falling
// back to the static table.
func loadRates(ctx context.Context, cfg *config.BoardConfig, logger *slog.Logger) (currency.Rates, error) {
	chain := rates.Chain{Logger: logger}

	if cfg.Rates.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Rates.Redis.Addr,
			Password:     cfg.Rates.Redis.Password,
			DB:           cfg.Rates.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		defer client.Close()
		chain.Sources = append(chain.Sources, rates.NewRedis(client, cfg.Rates.Redis.Key))
	}
	chain.Sources = append(chain.Sources, rates.Static(cfg.Rates.Static))

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	table, err := chain.Load(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}
	logger.Info("exchange rates loaded", "currencies", table.Codes())
	return table, nil
}

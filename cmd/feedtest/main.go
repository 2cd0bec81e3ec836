// feedtest connects to the realtime market-update feed and prints events to the console.
// Usage: go run ./cmd/feedtest --config configs/marketboard.local.yaml
//
// Required environment variables (via config substitution or .env):
//
//	BACKEND_API_KEY - project anon or service key
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/overtimestaff/marketboard/internal/api"
	"github.com/overtimestaff/marketboard/internal/auth"
	"github.com/overtimestaff/marketboard/internal/config"
	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/feed"
	"github.com/overtimestaff/marketboard/internal/model"
)

func main() {
	configPath := flag.String("config", "configs/marketboard.example.yaml", "path to config file")
	code := flag.String("currency", "", "display currency (default from config)")
	verbose := flag.Bool("verbose", false, "print full update JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *code == "" {
		*code = cfg.Feed.Currency
	}
	table := currency.Rates(cfg.Rates.Static)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	creds := auth.Credentials{APIKey: cfg.Backend.APIKey}
	realtimeURL, err := creds.RealtimeURL(cfg.Backend.RealtimeURL)
	if err != nil {
		logger.Error("invalid realtime url", "error", err)
		os.Exit(1)
	}
	header := http.Header{}
	creds.Apply(header)

	apiClient := api.NewClient(cfg.Backend.RestURL, cfg.Backend.APIKey,
		api.WithLogger(logger),
		api.WithTable(cfg.Backend.Schema, cfg.Backend.Table),
	)

	client := feed.NewClient(feed.Config{
		RealtimeURL: realtimeURL,
		Header:      header,
		Schema:      cfg.Backend.Schema,
		Table:       cfg.Backend.Table,
		MaxRetries:  cfg.Feed.MaxRetries,
		RetryDelay:  cfg.Feed.RetryDelay,
	}, apiClient, logger)

	// Snapshot first
	snapshot, err := client.FetchSnapshot(ctx, *code, table)
	if err != nil {
		logger.Warn("snapshot fetch failed", "error", err)
	}
	for _, u := range snapshot {
		printUpdate("SNAPSHOT", u, *verbose)
	}

	sub := client.Subscribe(ctx, feed.SubscribeParams{
		Currency: *code,
		Rates:    table,
		OnInsert: func(u model.MarketUpdate) { printUpdate("INSERT", u, *verbose) },
		OnUpdate: func(u model.MarketUpdate) { printUpdate("UPDATE", u, *verbose) },
		OnState: func(s feed.State, err error) {
			if err != nil {
				fmt.Printf("[STATE] %s error=%v\n", s, err)
				return
			}
			fmt.Printf("[STATE] %s\n", s)
		},
	})
	defer sub.Unsubscribe()

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done():
				return
			case <-ticker.C:
				stats := sub.Stats()
				logger.Info("stats",
					"received", stats.MessagesReceived,
					"routed", stats.MessagesRouted,
					"parse_errors", stats.ParseErrors,
					"skipped", stats.SkippedMessages,
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop", "currency", *code)

	select {
	case <-ctx.Done():
	case <-sub.Done():
		logger.Error("subscription ended", "error", sub.Err())
	}

	logger.Info("shutdown complete")
}

func printUpdate(kind string, u model.MarketUpdate, verbose bool) {
	if verbose {
		data, _ := json.MarshalIndent(u, "", "  ")
		fmt.Printf("[%s] %s\n", kind, data)
		return
	}
	fmt.Printf("[%s] id=%s type=%s urgency=%s rate=%s title=%q region=%s\n",
		kind, u.ID, u.Type, u.Urgency, u.Rate, u.Title, u.Region)
}

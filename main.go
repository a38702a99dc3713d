package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/pricetracker/config"
	"sjsage522/pricetracker/helpers"
	"sjsage522/pricetracker/internal/tracker"
	"sjsage522/pricetracker/logger"
	"sjsage522/pricetracker/services/cache"
	"sjsage522/pricetracker/services/notifier"
	"sjsage522/pricetracker/services/store"
	"sjsage522/pricetracker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	once := flag.Bool("once", false, "run a single check cycle and exit")
	flag.Parse()

	// Load environment variables (SMTP credentials and address overrides)
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	items := cfg.Items()
	log.Info().
		Str("environment", cfg.Environment).
		Dur("schedule_interval", cfg.ScheduleInterval()).
		Int("items", len(items)).
		Msg("Starting price tracker")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Open the observation store. This is the only hard stop: without
	// persisted history no meaningful work can proceed.
	observations, err := store.NewSQLiteStore(ctx, cfg.DatabaseFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabaseFile).Msg("Failed to open observation store")
	}
	defer func() {
		if err := observations.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close observation store")
		}
	}()
	logger.Info("Opened observation store at %s", cfg.DatabaseFile)

	// Optional rate-limit cool-down cache
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	fetcher := helpers.NewPageFetcher(
		cfg.UserAgent,
		cfg.RendererAddr,
		cfg.FetchWait(),
		cacheSvc,
		cfg.FetchBlock(),
	)

	// Alert channels: email always constructed (a disabled one is a
	// no-op), the Redis stream only when configured.
	channels := []notifier.Notifier{
		notifier.NewEmailNotifier(
			cfg.Alerts.Enabled,
			cfg.Alerts.SMTPAddr,
			cfg.Alerts.SenderEmail,
			cfg.Alerts.RecipientEmail,
		),
	}
	if cfg.Redis.Addr != "" {
		channels = append(channels, notifier.NewRedisNotifier(
			cfg.Redis.Addr,
			cfg.Redis.DB,
			cfg.Redis.Stream,
			cfg.Redis.StreamMaxLength,
		))
		logger.Info("Publishing alerts to Redis at %s (stream: %s)", cfg.Redis.Addr, cfg.Redis.Stream)
	}
	alerts := notifier.NewMultiNotifier(channels...)
	defer func() {
		if err := alerts.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close notifiers")
		}
	}()

	interval := cfg.ScheduleInterval()
	if *once {
		interval = 0
	}

	w := worker.NewWorker(
		items,
		fetcher,
		tracker.NewSelectorExtractor(),
		observations,
		alerts,
		interval,
		cfg.RequestDelay(),
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting price check worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

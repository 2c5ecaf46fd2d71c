package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/internal/api"
	cardstore "github.com/ethanbaker/cardbot/internal/stores/cards"
	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/scryfall"
	"github.com/ethanbaker/cardbot/pkg/utils"
)

// Start the API server
func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	if err := logger.Init(cfg.GetWithDefault("LOG_LEVEL", "info")); err != nil {
		panic(err)
	}

	log := logger.WithModule("main")
	if err := run(cfg); err != nil {
		log.Error("cardbot api exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *utils.Config) error {
	log := logger.WithModule("main")

	if err := cfg.Require("API_KEY"); err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shut down
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ttl, err := cfg.GetDuration("CARD_LOOKUP_TTL")
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = cards.DefaultLookupTTL
	}

	// Storage
	db, err := cardstore.Open(cardstore.ConfigFromSettings(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := cardstore.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	local := cardstore.NewGormStorage(db)
	lookups := cardstore.NewGormLookups(db, cardstore.WithTTL(ttl))

	// Upstream
	remote := scryfall.NewClient(
		cfg.GetWithDefault("SCRYFALL_BASE_URL", scryfall.DefaultBaseURL),
		scryfall.WithUserAgent(cfg.GetWithDefault("SCRYFALL_USER_AGENT", "cardbot")),
		scryfall.WithTimeout(cfg.GetDurationWithDefault("SCRYFALL_TIMEOUT", scryfall.DefaultTimeout)),
	)

	store, err := cards.NewStore(&cards.StoreOptions{
		Lookups: lookups,
		Local:   local,
		Remote:  remote,
	})
	if err != nil {
		return err
	}

	// Background sweep of stale search terms
	if spec, ok := sweepSpec(cfg); ok {
		sweeper, err := cards.NewSweeper(lookups, &cards.SweeperOptions{Spec: spec, TTL: ttl})
		if err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
		log.Info("card lookup sweeper started", zap.String("spec", spec), zap.Duration("ttl", ttl))
	}

	// Start
	return api.Start(ctx, cfg, store)
}

// sweepSpec returns the configured cron spec; an explicitly empty value disables the sweep
func sweepSpec(cfg *utils.Config) (string, bool) {
	if !cfg.Has("CARD_LOOKUP_SWEEP") {
		return cards.DefaultSweepSpec, true
	}

	spec := cfg.Get("CARD_LOOKUP_SWEEP")
	return spec, spec != ""
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/utils"
)

func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	if err := logger.Init(cfg.GetWithDefault("LOG_LEVEL", "info")); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.WithModule("discord")

	// Wait for interrupt signal to gracefully shut down the bot
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot")

	// Create and start the bot
	bot, err := NewBot(cfg)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	if err := bot.Start(); err != nil {
		log.Fatal("failed to start bot", zap.Error(err))
	}

	// Wait for shutdown signal
	log.Info("bot is running, press Ctrl+C to exit")
	<-ctx.Done()

	// Cleanly stop the bot
	if err := bot.Stop(); err != nil {
		log.Warn("error during bot shutdown", zap.Error(err))
	}

	log.Info("bot stopped gracefully")
}

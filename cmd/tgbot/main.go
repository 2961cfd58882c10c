package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/CrashSignal/internal/api/openai"
	"github.com/Alias1177/CrashSignal/internal/checker"
	"github.com/Alias1177/CrashSignal/internal/commentary"
	"github.com/Alias1177/CrashSignal/internal/config"
	"github.com/Alias1177/CrashSignal/internal/database"
	httpx "github.com/Alias1177/CrashSignal/internal/platform/http"
	sig "github.com/Alias1177/CrashSignal/internal/signal"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	config.SetupLogger(cfg.LogLevel)

	// Get bot token from environment
	if cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		opts    []checker.Option
		journal statsSource
	)
	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		opts = append(opts, checker.WithJournal(db))
		journal = db
	}

	svc := checker.New(sig.Default(), commentary.NewClient(openai.Factory(cfg)), opts...)

	// Long polling holds requests for up to 60s
	transport := httpx.NewClient(httpx.ClientOptions{
		Timeout:        90 * time.Second,
		RequestsPerSec: cfg.TelegramRPS,
	})

	// Initialize Telegram bot
	api, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint, transport)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")

	b := newBot(api, svc, journal)

	// Setup update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	// Idle chat drafts are swept on the update loop so state stays single-goroutine
	pruneTicker := time.NewTicker(time.Hour)
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			log.Info().Msg("Bot stopped")
			return
		case <-pruneTicker.C:
			b.pruneIdle()
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

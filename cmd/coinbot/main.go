package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coinbot/internal/bot"
	"coinbot/internal/config"
	"coinbot/internal/service"
	"coinbot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	store, err := storage.Open(cfg.DataPath)
	if err != nil {
		slog.Error("open ledger", "path", cfg.DataPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		slog.Error("telegram auth", "err", err)
		os.Exit(1)
	}
	api.Debug = cfg.Debug

	b := bot.New(api, service.NewEconomy(store), slog.Default(), cfg.ImagesDir, cfg.UpdateTimeout)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("shutting down")
		b.Stop()
	}()

	b.Run()
}

// setupLogger sets slog's default logger to JSON output at the configured
// level.
func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}),
	)
	slog.SetDefault(logger)
}

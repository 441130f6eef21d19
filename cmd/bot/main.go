// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"travel-cards/internal/assistant"
	"travel-cards/internal/cache"
	"travel-cards/internal/cardgenius"
	"travel-cards/internal/catalog"
	"travel-cards/internal/config"
	"travel-cards/internal/domain"
	"travel-cards/internal/recommend"
	"travel-cards/internal/storage"
	"travel-cards/internal/storage/memory"
	"travel-cards/internal/storage/postgres"
	"travel-cards/internal/telegram"
)

func main() {
	cfg := config.MustLoad()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	if cfg.DBConn != "" {
		db, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			slog.Error("failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewStorage(db)
	} else {
		store = memory.NewStorage(domain.DefaultOffers())
	}

	c, err := cache.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to init cache", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	catalogSvc := catalog.NewService(catalog.NewClient(cfg.CatalogURL, cfg.CatalogSlug, httpClient), c, cfg.CatalogCacheTTL, cfg.CatalogSlug)
	recommender := recommend.NewService(cardgenius.NewClient(cfg.RecommendationURL, httpClient), store, recommend.Options{
		FetchWindow:  cfg.FetchWindow,
		DisplayLimit: cfg.DisplayLimit,
	})

	completer, err := assistant.NewCompleter(ctx, cfg, httpClient)
	if err != nil {
		slog.Error("failed to init LLM client", "error", err)
		os.Exit(1)
	}
	var chatCatalog assistant.CatalogContext
	if cfg.ChatCatalogContext {
		chatCatalog = catalogSvc
	}

	bot, err := telegram.NewBot(cfg.TelegramToken,
		telegram.NewResponder(recommender, catalogSvc, store, assistant.NewService(completer, chatCatalog)))
	if err != nil {
		slog.Error("failed to init telegram bot", "error", err)
		os.Exit(1)
	}

	slog.Info("bot started", "username", bot.UserName())
	if err := bot.Run(ctx); err != nil {
		slog.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("bot stopped")
}
